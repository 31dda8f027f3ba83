package template

import "slices"

const (
	policyVersion  = "2012-10-17"
	firehoseDomain = "firehose.amazonaws.com"
)

// grants collects the resources the generated service role must reach.
type grants struct {
	buckets   []any // bucket ARNs; object access is granted on <arn>/*
	keys      []string
	logGroups []any
	functions []string
}

func (g *grants) bucket(arn any) {
	g.buckets = append(g.buckets, arn)
}

func (g *grants) key(arn string) {
	if slices.Contains(g.keys, arn) {
		return
	}
	g.keys = append(g.keys, arn)
}

func (g *grants) logGroup(arn any) {
	g.logGroups = append(g.logGroups, arn)
}

func (g *grants) function(arn string) {
	g.functions = append(g.functions, arn)
}

// serviceRole builds a role the delivery service can assume, with an inline policy
// scoped to exactly the resources in g.
func serviceRole(policyName string, g grants) RoleProperties {
	trust := PolicyDocument{
		Version: policyVersion,
		Statement: []Statement{{
			Effect:    "Allow",
			Principal: map[string]string{"Service": firehoseDomain},
			Action:    []string{"sts:AssumeRole"},
		}},
	}

	var stmts []Statement
	if len(g.buckets) > 0 {
		var res []any
		for _, b := range g.buckets {
			res = append(res, b, objectsOf(b))
		}
		stmts = append(stmts, Statement{
			Effect: "Allow",
			Action: []string{
				"s3:AbortMultipartUpload",
				"s3:GetBucketLocation",
				"s3:GetObject",
				"s3:ListBucket",
				"s3:ListBucketMultipartUploads",
				"s3:PutObject",
			},
			Resource: res,
		})
	}
	if len(g.keys) > 0 {
		stmts = append(stmts, Statement{
			Effect:   "Allow",
			Action:   []string{"kms:Decrypt", "kms:GenerateDataKey"},
			Resource: strs(g.keys),
		})
	}
	if len(g.logGroups) > 0 {
		stmts = append(stmts, Statement{
			Effect:   "Allow",
			Action:   []string{"logs:CreateLogStream", "logs:PutLogEvents"},
			Resource: g.logGroups,
		})
	}
	if len(g.functions) > 0 {
		stmts = append(stmts, Statement{
			Effect:   "Allow",
			Action:   []string{"lambda:InvokeFunction", "lambda:GetFunctionConfiguration"},
			Resource: strs(g.functions),
		})
	}

	return RoleProperties{
		AssumeRolePolicyDocument: trust,
		Policies: []RolePolicy{{
			PolicyName:     policyName,
			PolicyDocument: PolicyDocument{Version: policyVersion, Statement: stmts},
		}},
	}
}

func objectsOf(bucketARN any) any {
	if s, ok := bucketARN.(string); ok {
		return s + "/*"
	}
	return Join("", bucketARN, "/*")
}

func strs(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
