package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mkhare/splitledger/internal/errdefs"
	"github.com/mkhare/splitledger/internal/models"
	"github.com/mkhare/splitledger/internal/storage"
)

// GroupService creates group records.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group with the given initial member set and returns
// its id. The group and its memberships persist as one unit: if any user id
// does not exist, nothing is created.
func (s *GroupService) CreateGroup(ctx context.Context, name string, userIDs []int64) (int64, error) {
	group := &models.Group{Name: name, Members: userIDs}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		if errors.Is(err, storage.ErrMissingRef) {
			return 0, errdefs.BusinessRule("One or more user(s) do not exist")
		}
		slog.Error("CreateGroup failed", "name", name, "error", err)
		return 0, err
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return group.ID, nil
}
