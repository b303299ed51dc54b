package out

import (
	"context"

	activityin "mindshelf/internal/modules/activity/port/in"
)

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
