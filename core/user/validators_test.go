package user

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/bytehub/core"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()

	lang := en.New()
	translator, found := ut.New(lang, lang).GetTranslator(lang.Locale())
	require.True(t, found)

	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

func failedTags(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		tags = append(tags, fe.Tag())
	}
	return tags
}

func Test_passwordPolicy(t *testing.T) {
	validate := newValidator(t)

	base := func() NewUser {
		return NewUser{
			Name:       "sasha",
			Email:      "sasha@chitkara.edu.in",
			RollNo:     2211601,
			Phone:      "9876543210",
			Department: "CSE",
			Year:       1,
			Group:      4,
		}
	}

	tests := []struct {
		name     string
		password string
		wantTag  string
	}{
		{"ok", "s3cur3-p4ss!", ""},
		{"too short", "ab1!", pwdMinLenTag},
		{"whitespace", "pass word 123", pwdNoSpaceTag},
		{"all numeric", "4815162342", pwdNotAllNumTag},
		{"similar to email", "sasha@chitkara.edu", pwdAttrSimTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := base()
			nu.Password = tt.password
			nu.PasswordConfirm = tt.password

			err := validate.Struct(nu)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, failedTags(err), tt.wantTag)
		})
	}

	t.Run("confirmation must match", func(t *testing.T) {
		nu := base()
		nu.Password = "s3cur3-p4ss!"
		nu.PasswordConfirm = "different-p4ss!"
		assert.Contains(t, failedTags(validate.Struct(nu)), "eqfield")
	})

	t.Run("non campus email rejected", func(t *testing.T) {
		nu := base()
		nu.Email = "sasha@gmail.com"
		nu.Password = "s3cur3-p4ss!"
		nu.PasswordConfirm = "s3cur3-p4ss!"
		assert.Contains(t, failedTags(validate.Struct(nu)), "campus_email")
	})
}

func Test_updateProfilePasswordPolicy(t *testing.T) {
	validate := newValidator(t)

	t.Run("new password requires current", func(t *testing.T) {
		up := UpdateProfile{NewPassword: "n3w-s3cret!"}
		assert.Contains(t, failedTags(validate.Struct(up)), "required_with")
	})

	t.Run("weak new password rejected", func(t *testing.T) {
		up := UpdateProfile{CurrentPassword: "s3cur3-p4ss!", NewPassword: "123"}
		tags := failedTags(validate.Struct(up))
		assert.Contains(t, tags, pwdMinLenTag)
		assert.Contains(t, tags, pwdNotAllNumTag)
	})
}
