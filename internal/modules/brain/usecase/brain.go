package usecase

import (
	"context"

	"mindshelf/internal/modules/brain/domain"
	"mindshelf/internal/modules/brain/dto"
	brainin "mindshelf/internal/modules/brain/port/in"
	"mindshelf/internal/modules/brain/service"
)

type Interactor struct {
	svc *service.BrainService
}

func NewInteractor(svc *service.BrainService) brainin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Get(ctx context.Context) (dto.BrainOutput, error) {
	brain, err := i.svc.Get(ctx)
	if err != nil {
		return dto.BrainOutput{}, err
	}
	return toOutput(brain), nil
}

func (i *Interactor) Edit(ctx context.Context, input dto.EditInput) (dto.BrainOutput, error) {
	brain, err := i.svc.Edit(ctx, input.Content)
	if err != nil {
		return dto.BrainOutput{}, err
	}
	return toOutput(brain), nil
}

func (i *Interactor) Merge(ctx context.Context, input dto.MergeInput) (dto.MergeOutput, error) {
	brain, proposal, err := i.svc.Merge(ctx, input.ItemID)
	if err != nil {
		return dto.MergeOutput{}, err
	}
	return dto.MergeOutput{Brain: toOutput(brain), ItemID: input.ItemID, Proposal: proposal}, nil
}

func toOutput(brain domain.Brain) dto.BrainOutput {
	return dto.BrainOutput{Content: brain.Content, Revision: brain.Revision, UpdatedAt: brain.UpdatedAt}
}
