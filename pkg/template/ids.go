package template

import (
	"regexp"
	"strings"
	"unicode"
)

// Logical id suffixes. A stream named "click-events" yields "ClickEventsDeliveryStream",
// "ClickEventsServiceRole" and so on.
const (
	suffixDeliveryStream     = "DeliveryStream"
	suffixRole               = "ServiceRole"
	suffixLogGroup           = "LogGroup"
	suffixDestinationStream  = "S3DestinationLogStream"
	suffixBackupStream       = "S3BackupLogStream"
	suffixBackupBucket       = "BackupBucket"
	suffixDeliveryStreamArn  = "DeliveryStreamArn"
	logStreamNameDestination = "S3Destination"
	logStreamNameBackup      = "S3Backup"
)

// LogicalID turns a stream name into the CamelCase prefix of its resource ids. Logical
// ids must be alphanumeric, so separators are dropped and the following letter is
// upper-cased. Names that would start with a digit are prefixed with "Stream".
func LogicalID(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	id := b.String()
	if id == "" || unicode.IsDigit(rune(id[0])) {
		id = "Stream" + id
	}
	return id
}

// Export names accept only alphanumerics, colons and hyphens.
var exportUnsafe = regexp.MustCompile(`[^A-Za-z0-9:-]+`)

// exportName is the stack-scoped export for a stream's ARN output. Runs of other
// characters in the stream name collapse to a single hyphen.
func exportName(stream string) string {
	return "${AWS::StackName}-" + exportUnsafe.ReplaceAllString(stream, "-") + "-arn"
}
