package ecs

import (
	"github.com/YaleSpinup/apierror"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrCode maps an ECS error onto an apierror
func ErrCode(msg string, err error) error {
	if aerr, ok := errors.Cause(err).(awserr.Error); ok {
		switch aerr.Code() {
		case
			ecs.ErrCodeAccessDeniedException,
			ecs.ErrCodeBlockedException:

			return apierror.New(apierror.ErrForbidden, msg, aerr)
		case
			ecs.ErrCodeServerException:

			return apierror.New(apierror.ErrInternalError, msg, aerr)
		case
			ecs.ErrCodeUpdateInProgressException,
			ecs.ErrCodeClusterContainsContainerInstancesException,
			ecs.ErrCodeClusterContainsServicesException,
			ecs.ErrCodeClusterContainsTasksException,
			ecs.ErrCodeResourceInUseException:

			return apierror.New(apierror.ErrConflict, msg, aerr)
		case
			ecs.ErrCodeClientException,
			ecs.ErrCodeInvalidParameterException,
			ecs.ErrCodeMissingVersionException,
			ecs.ErrCodeNoUpdateAvailableException,
			ecs.ErrCodePlatformTaskDefinitionIncompatibilityException,
			ecs.ErrCodePlatformUnknownException,
			ecs.ErrCodeServiceNotActiveException,
			ecs.ErrCodeUnsupportedFeatureException:

			return apierror.New(apierror.ErrBadRequest, msg+": "+aerr.Message(), aerr)
		case
			ecs.ErrCodeClusterNotFoundException,
			ecs.ErrCodeResourceNotFoundException,
			ecs.ErrCodeServiceNotFoundException,
			ecs.ErrCodeTargetNotFoundException,
			ecs.ErrCodeTaskSetNotFoundException:

			return apierror.New(apierror.ErrNotFound, msg+": "+aerr.Message(), aerr)
		case
			ecs.ErrCodeAttributeLimitExceededException,
			ecs.ErrCodeLimitExceededException:

			return apierror.New(apierror.ErrLimitExceeded, msg, aerr)
		default:
			m := msg + ": " + aerr.Message()
			return apierror.New(apierror.ErrBadRequest, m, aerr)
		}
	}

	log.Warnf("uncaught error: %s, returning Internal Server Error", err)
	return apierror.New(apierror.ErrInternalError, msg, err)
}
