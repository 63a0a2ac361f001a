package invitesdk

import (
	"context"
	"net/http"
	"net/url"
)

// OnboardSchool founds a school with the session's account as director.
// onboardingToken is only needed when the service is gated.
func (c *Client) OnboardSchool(ctx context.Context, onboardingToken string, req OnboardRequest) (*OnboardResponse, error) {
	var headers map[string]string
	if onboardingToken != "" {
		headers = map[string]string{OnboardingTokenHeader: onboardingToken}
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/onboarding/school", req, headers)
	if err != nil {
		return nil, err
	}

	var out OnboardResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateClassroom adds a classroom to the director's school.
func (c *Client) CreateClassroom(ctx context.Context, req ClassroomRequest) (*Classroom, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/classrooms", req, nil)
	if err != nil {
		return nil, err
	}

	var out Classroom
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListClassrooms lists the director's classrooms by name.
func (c *Client) ListClassrooms(ctx context.Context) (*ClassroomList, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/classrooms", nil, nil)
	if err != nil {
		return nil, err
	}

	var out ClassroomList
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMembers returns the roster of one of the director's classrooms.
func (c *Client) ListMembers(ctx context.Context, classroomID string) (*MemberList, error) {
	path := "/v1/classrooms/" + url.PathEscape(classroomID) + "/members"
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out MemberList
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
