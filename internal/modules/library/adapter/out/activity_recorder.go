package out

import (
	"context"

	activityin "mindshelf/internal/modules/activity/port/in"
)

// ActivityRecorder forwards ledger increments to the activity module.
type ActivityRecorder struct {
	activity activityin.Usecase
}

func NewActivityRecorder(activity activityin.Usecase) *ActivityRecorder {
	return &ActivityRecorder{activity: activity}
}

func (r *ActivityRecorder) Record(ctx context.Context) error {
	_, err := r.activity.Record(ctx)
	return err
}
