package authsdk

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Password bounds enforced on every endpoint that sets one.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128

	MaxInviteMessageLength = 500
)

var (
	reUsername = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

	inviteRoles = []any{"", "free", "professional", "business", "enterprise"}
	plans       = []any{"free", "professional", "business", "enterprise"}
	statuses    = []any{"", "active", "canceled", "expired", "past_due"}
)

func passwordRules(required bool) []validation.Rule {
	rules := []validation.Rule{validation.RuneLength(MinPasswordLength, MaxPasswordLength)}
	if required {
		rules = append([]validation.Rule{validation.Required}, rules...)
	}
	return rules
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, passwordRules(true)...),
		validation.Field(&r.Username, validation.Length(3, 32), validation.Match(reUsername)),
		validation.Field(&r.Name, validation.Length(0, 200)),
		validation.Field(&r.Company, validation.Length(0, 200)),
	)
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (r GoogleAuthRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDToken, validation.Required),
	)
}

func (r EmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, passwordRules(true)...),
	)
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, passwordRules(true)...),
	)
}

func (r CreateInviteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Role, validation.In(inviteRoles...)),
		validation.Field(&r.Message, validation.RuneLength(0, MaxInviteMessageLength)),
	)
}

func (r AcceptInviteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(0, 200)),
		validation.Field(&r.Password, passwordRules(false)...),
	)
}

func (r SubscriptionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Plan, validation.Required, validation.In(plans...)),
		validation.Field(&r.Status, validation.In(statuses...)),
		validation.Field(&r.SeatsTotal, validation.Min(0)),
		validation.Field(&r.SeatsUsed, validation.Min(0)),
	)
}

// FieldErrors flattens an ozzo validation result into field -> message.
// Other errors come back as nil.
func FieldErrors(err error) map[string]string {
	verrs, ok := err.(validation.Errors)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for field, fe := range verrs {
		if fe != nil {
			out[field] = fe.Error()
		}
	}
	return out
}
