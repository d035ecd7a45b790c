/*
Package authsdk is the Go client for the teamauth service, and the home of
the JSON types its HTTP API speaks.

# SDKClient vs Session

SDKClient covers the public endpoints: registration, login, email
verification, password reset, invitation lookup and acceptance, and the
health probes. Signing in returns a Session, which carries the tokens and
refreshes the access token on expiry:

	client := authsdk.NewSDKClient("https://auth.example.com")

	reg, err := client.Register(ctx, authsdk.RegisterRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	})

	// after the emailed verification link has been followed
	session, err := client.AuthenticateWithPassword(ctx, "alice@example.com", "correct-horse")

	me, err := session.Me(ctx)

# Team invitations

Team owners and members manage invitations through their Session:

	res, err := session.CreateInvite(ctx, authsdk.CreateInviteRequest{
		Email: "bob@example.com",
		Role:  "business",
	})

	page, err := session.ListTeamInvites(ctx, authsdk.ListInvitesOptions{Status: "pending"})

The invitee only needs the token from the email link:

	details, err := client.GetInvite(ctx, token)
	acc, err := client.AcceptInvite(ctx, token, authsdk.AcceptInviteRequest{
		Name:     "Bob",
		Password: "battery-staple",
	})

# Errors

Failed calls return *APIError carrying the HTTP status and a stable error
code. Compare against the exported sentinels with errors.Is:

	if errors.Is(err, authsdk.ErrSeatLimitReached) {
		// upgrade prompt
	}

Email delivery is best effort. When a notification could not be sent the
call still succeeds and the response lists the failure in Warnings.

# Validation

Request types implement Validate using ozzo-validation. The server applies
the same rules, so validating client side only saves a round trip.
*/
package authsdk
