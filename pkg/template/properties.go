package template

// Property shapes of the resources the compiler emits. Fields typed any hold either a
// literal string or an intrinsic function (Ref, GetAtt, Sub, Join).

type DeliveryStreamProperties struct {
	DeliveryStreamName                 string                              `json:"DeliveryStreamName"`
	DeliveryStreamType                 string                              `json:"DeliveryStreamType"`
	ExtendedS3DestinationConfiguration *ExtendedS3DestinationConfiguration `json:"ExtendedS3DestinationConfiguration"`
}

type ExtendedS3DestinationConfiguration struct {
	BucketARN                any                         `json:"BucketARN"`
	RoleARN                  any                         `json:"RoleARN"`
	BufferingHints           BufferingHints              `json:"BufferingHints"`
	CompressionFormat        string                      `json:"CompressionFormat"`
	EncryptionConfiguration  EncryptionConfiguration     `json:"EncryptionConfiguration"`
	Prefix                   string                      `json:"Prefix,omitempty"`
	ErrorOutputPrefix        string                      `json:"ErrorOutputPrefix,omitempty"`
	CloudWatchLoggingOptions *CloudWatchLoggingOptions   `json:"CloudWatchLoggingOptions,omitempty"`
	ProcessingConfiguration  *ProcessingConfiguration    `json:"ProcessingConfiguration,omitempty"`
	S3BackupMode             string                      `json:"S3BackupMode"` // Enabled | Disabled
	S3BackupConfiguration    *S3DestinationConfiguration `json:"S3BackupConfiguration,omitempty"`
}

// S3DestinationConfiguration is the plain S3 block used for the backup copy.
type S3DestinationConfiguration struct {
	BucketARN                any                       `json:"BucketARN"`
	RoleARN                  any                       `json:"RoleARN"`
	BufferingHints           BufferingHints            `json:"BufferingHints"`
	CompressionFormat        string                    `json:"CompressionFormat"`
	EncryptionConfiguration  EncryptionConfiguration   `json:"EncryptionConfiguration"`
	Prefix                   string                    `json:"Prefix,omitempty"`
	ErrorOutputPrefix        string                    `json:"ErrorOutputPrefix,omitempty"`
	CloudWatchLoggingOptions *CloudWatchLoggingOptions `json:"CloudWatchLoggingOptions,omitempty"`
}

type BufferingHints struct {
	IntervalInSeconds int `json:"IntervalInSeconds"`
	SizeInMBs         int `json:"SizeInMBs"`
}

// EncryptionConfiguration sets exactly one of the two fields.
type EncryptionConfiguration struct {
	KMSEncryptionConfig *KMSEncryptionConfig `json:"KMSEncryptionConfig,omitempty"`
	NoEncryptionConfig  string               `json:"NoEncryptionConfig,omitempty"`
}

type KMSEncryptionConfig struct {
	AWSKMSKeyARN string `json:"AWSKMSKeyARN"`
}

type CloudWatchLoggingOptions struct {
	Enabled       bool `json:"Enabled"`
	LogGroupName  any  `json:"LogGroupName,omitempty"`
	LogStreamName any  `json:"LogStreamName,omitempty"`
}

type ProcessingConfiguration struct {
	Enabled    bool        `json:"Enabled"`
	Processors []Processor `json:"Processors"`
}

type Processor struct {
	Type       string               `json:"Type"`
	Parameters []ProcessorParameter `json:"Parameters"`
}

type ProcessorParameter struct {
	ParameterName  string `json:"ParameterName"`
	ParameterValue any    `json:"ParameterValue"`
}

type LogGroupProperties struct {
	RetentionInDays int `json:"RetentionInDays,omitempty"`
}

type LogStreamProperties struct {
	LogGroupName  any    `json:"LogGroupName"`
	LogStreamName string `json:"LogStreamName"`
}

type RoleProperties struct {
	AssumeRolePolicyDocument PolicyDocument `json:"AssumeRolePolicyDocument"`
	Policies                 []RolePolicy   `json:"Policies,omitempty"`
}

type RolePolicy struct {
	PolicyName     string         `json:"PolicyName"`
	PolicyDocument PolicyDocument `json:"PolicyDocument"`
}

type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

type Statement struct {
	Effect    string            `json:"Effect"`
	Principal map[string]string `json:"Principal,omitempty"`
	Action    []string          `json:"Action"`
	Resource  []any             `json:"Resource,omitempty"`
}

type BucketProperties struct {
	BucketEncryption *BucketEncryption `json:"BucketEncryption,omitempty"`
}

type BucketEncryption struct {
	ServerSideEncryptionConfiguration []ServerSideEncryptionRule `json:"ServerSideEncryptionConfiguration"`
}

type ServerSideEncryptionRule struct {
	ServerSideEncryptionByDefault ServerSideEncryptionByDefault `json:"ServerSideEncryptionByDefault"`
}

type ServerSideEncryptionByDefault struct {
	SSEAlgorithm   string `json:"SSEAlgorithm"`
	KMSMasterKeyID string `json:"KMSMasterKeyID,omitempty"`
}
