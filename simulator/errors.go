package simulator

import (
	"net/http"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// newRequestFailure builds an error with the same shape the SDK returns for a
// failed ECS API call
func newRequestFailure(code, msg string) error {
	return awserr.NewRequestFailure(awserr.New(code, msg, nil), http.StatusBadRequest, uuid.NewV4().String())
}

// invalidParameter is returned when a required parameter is missing or a combination
// of parameters is invalid for the requested mode
func invalidParameter(msg string) error {
	return newRequestFailure(ecs.ErrCodeInvalidParameterException, msg)
}

// notFound is returned when a reference doesn't resolve to a stored resource
func notFound(msg string) error {
	return newRequestFailure(ecs.ErrCodeResourceNotFoundException, msg)
}

func clusterNotFound(msg string) error {
	return newRequestFailure(ecs.ErrCodeClusterNotFoundException, msg)
}

// IsInvalidParameter returns true if the error is an invalid parameter error from the simulator
func IsInvalidParameter(err error) bool {
	return hasCode(err, ecs.ErrCodeInvalidParameterException)
}

// IsNotFound returns true if the error is a not found error from the simulator
func IsNotFound(err error) bool {
	return hasCode(err, ecs.ErrCodeResourceNotFoundException, ecs.ErrCodeClusterNotFoundException)
}

func hasCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}

	aerr, ok := errors.Cause(err).(awserr.Error)
	if !ok {
		return false
	}

	for _, c := range codes {
		if aerr.Code() == c {
			return true
		}
	}
	return false
}

// errorCode returns the aws error code of an error, used as a metrics label
func errorCode(err error) string {
	if aerr, ok := errors.Cause(err).(awserr.Error); ok {
		return aerr.Code()
	}
	return "Unknown"
}
