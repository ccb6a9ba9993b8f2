package repository

import (
	"errors"
	"time"

	"nexus_consulting/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var timeNow = time.Now

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// translateConditionFailure converts DynamoDB's conditional-check failure
// into the storage-level signal the use cases react to. Everything else
// passes through untouched.
func translateConditionFailure(err, signal error) error {
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) {
		return signal
	}
	return err
}

var (
	errStatusConflict = interfaces.ErrStatusConflict
	errDuplicateKey   = interfaces.ErrDuplicateKey
)

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
