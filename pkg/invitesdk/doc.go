/*
Package invitesdk is a Go client for the classroom invitation service.

# Overview

A Client talks to one service instance. Director operations need a session
token from the identity provider, set with WithToken:

	client := invitesdk.NewClient("https://invites.example.com").WithToken(sessionJWT)

	classroom, err := client.CreateClassroom(ctx, invitesdk.ClassroomRequest{Name: "3B", Grade: "3"})

	inv, err := client.IssueInvitation(ctx, invitesdk.IssueRequest{
		ClassroomID:  classroom.ID,
		IntendedRole: "TEACHER",
	})
	fmt.Println(inv.InviteURL)

Redemption is public. A session token, when present, decides which account
is attached; otherwise AccountID does:

	res, err := invitesdk.NewClient(base).RedeemInvitation(ctx, invitesdk.RedeemRequest{
		Secret:        secret,
		RequestedRole: "TEACHER",
		AccountID:     userID,
	})

# Errors

Every non-2xx response becomes an *APIError carrying the HTTP status, the
machine-readable code and, for validation failures, per-field messages:

	var apiErr *invitesdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == invitesdk.ErrorCodeExpired {
		// ask the director for a new link
	}

IsCode is a shorthand for the same check.
*/
package invitesdk
