package orchestration

import (
	"context"

	"github.com/YaleSpinup/ecs-sim/common"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Seed registers each of the task definitions in a seed, in order, returning the ARNs of the
// registered revisions
func (o *Orchestrator) Seed(ctx context.Context, seed *common.Seed) ([]string, error) {
	arns := []string{}
	if seed == nil {
		return arns, nil
	}

	for i, td := range seed.TaskDefinitions {
		out, err := o.CreateTaskDef(ctx, &TaskDefCreateOrchestrationInput{
			TaskDefinition: td,
			Tags:           fromECSTags(td.Tags),
		})
		if err != nil {
			return arns, errors.Wrapf(err, "failed to register seed task definition %d (%s)", i, aws.StringValue(td.Family))
		}

		arns = append(arns, aws.StringValue(out.TaskDefinition.TaskDefinitionArn))
	}

	log.Infof("seeded %d task definition(s)", len(arns))

	return arns, nil
}

// SeedFiles loads and registers the task definitions in each of the seed files
func (o *Orchestrator) SeedFiles(ctx context.Context, files ...string) ([]string, error) {
	arns := []string{}
	for _, f := range files {
		log.Infof("loading seed file %s", f)

		seed, err := common.LoadSeed(f)
		if err != nil {
			return arns, err
		}

		out, err := o.Seed(ctx, seed)
		arns = append(arns, out...)
		if err != nil {
			return arns, err
		}
	}

	return arns, nil
}
