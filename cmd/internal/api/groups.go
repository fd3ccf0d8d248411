package api

import "context"

// GroupsService covers /groups and group chat history.
type GroupsService struct {
	c *Client
}

// CreateGroupInput is the body for group creation.
type CreateGroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// List returns all groups visible to the user.
func (s *GroupsService) List(ctx context.Context) ([]Group, error) {
	raw, err := s.c.do(ctx, "GET", "/groups", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Group](raw, "groups")
}

// Create makes a new group.
func (s *GroupsService) Create(ctx context.Context, in CreateGroupInput) (Group, error) {
	raw, err := s.c.do(ctx, "POST", "/groups", in)
	if err != nil {
		return Group{}, err
	}
	return decodeWrapped[Group](raw, "group")
}

// Get fetches a single group.
func (s *GroupsService) Get(ctx context.Context, id string) (Group, error) {
	raw, err := s.c.do(ctx, "GET", "/groups/"+id, nil)
	if err != nil {
		return Group{}, err
	}
	return decodeWrapped[Group](raw, "group")
}

// Join requests membership. Membership limits and duplicate-join policy
// are enforced server-side; callers branch on IsStatus for the
// "already a member" case.
func (s *GroupsService) Join(ctx context.Context, id string) error {
	_, err := s.c.do(ctx, "POST", "/groups/"+id+"/join", nil)
	return err
}

// Messages returns the group's chat history in ascending chronological order.
func (s *GroupsService) Messages(ctx context.Context, id string) ([]Message, error) {
	raw, err := s.c.do(ctx, "GET", "/groups/"+id+"/messages", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Message](raw, "messages")
}
