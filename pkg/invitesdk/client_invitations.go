package invitesdk

import (
	"context"
	"net/http"
	"net/url"
)

// IssueInvitation returns a valid invitation for the classroom and role. The
// service answers 201 for a new invitation and 200 when it reused one.
// Requires a director session.
func (c *Client) IssueInvitation(ctx context.Context, req IssueRequest) (*Invitation, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/invitations", req, nil)
	if err != nil {
		return nil, err
	}

	var inv Invitation
	if err := decodeJSON(resp, &inv, http.StatusCreated, http.StatusOK); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvitations lists the classroom's unused invitations, newest first.
// Requires a director session.
func (c *Client) ListInvitations(ctx context.Context, classroomID string) (*InvitationList, error) {
	path := "/v1/classrooms/" + url.PathEscape(classroomID) + "/invitations"
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var list InvitationList
	if err := decodeJSON(resp, &list, http.StatusOK); err != nil {
		return nil, err
	}
	return &list, nil
}

// RevokeInvitation deletes an invitation. Requires a director session.
func (c *Client) RevokeInvitation(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/v1/invitations/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// RedeemInvitation consumes an invitation.
func (c *Client) RedeemInvitation(ctx context.Context, req RedeemRequest) (*RedeemResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/invitations/redeem", req, nil)
	if err != nil {
		return nil, err
	}

	var out RedeemResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
