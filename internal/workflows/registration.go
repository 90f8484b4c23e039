package workflows

import (
	"context"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/digipin/internal/core/domain"
)

// RegistrationInput is the input for the place registration workflow.
type RegistrationInput struct {
	Label string
	Lat   float64
	Lon   float64
}

// PlaceRegistrationWorkflow encodes, stores and announces a place. If the
// announcement fails, a place this run inserted is deleted again (saga
// compensation); a place that already existed is left alone.
func PlaceRegistrationWorkflow(ctx workflow.Context, input RegistrationInput) (*domain.Place, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting place registration", "label", input.Label)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Encode
	var place *domain.Place
	if err := workflow.ExecuteActivity(ctx, "EncodePlace", input).Get(ctx, &place); err != nil {
		return nil, err
	}

	// Step 2: Store
	var stored StoredPlace
	if err := workflow.ExecuteActivity(ctx, "StorePlace", place).Get(ctx, &stored); err != nil {
		return nil, err
	}
	place = stored.Place

	// Step 3: Announce
	if err := workflow.ExecuteActivity(ctx, "PublishRegistered", place).Get(ctx, nil); err != nil {
		if !stored.Inserted {
			logger.Warn("announcement failed for existing place", "id", place.ID, "error", err)
			return nil, err
		}
		logger.Warn("announcement failed, compensating", "id", place.ID, "error", err)
		_ = workflow.ExecuteActivity(ctx, "DeletePlace", place).Get(ctx, nil)
		return nil, err
	}

	logger.Info("Place registered", "id", place.ID, "digipin", place.DIGIPIN)
	return place, nil
}

// StartRegistration starts a PlaceRegistrationWorkflow and waits for its result.
func StartRegistration(ctx context.Context, c client.Client, taskQueue string, input RegistrationInput) (*domain.Place, error) {
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		TaskQueue: taskQueue,
	}, PlaceRegistrationWorkflow, input)
	if err != nil {
		return nil, err
	}
	var place *domain.Place
	if err := run.Get(ctx, &place); err != nil {
		return nil, err
	}
	return place, nil
}
