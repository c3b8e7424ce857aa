package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskpulse/apiserver/types"
)

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		field    string
	}{
		{"ok", "alice", "secret1", ""},
		{"missing username", "  ", "secret1", "credentials"},
		{"missing password", "alice", "", "credentials"},
		{"short password", "alice", "12345", "password"},
		{"long password", "alice", strings.Repeat("x", 73), "password"},
		{"long username", strings.Repeat("a", 51), "secret1", "username"},
		{"whitespace username", "al ice", "secret1", "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRegister(tt.username, tt.password)
			if tt.field == "" {
				assert.False(t, errs.HasErrors())
				return
			}
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestValidateRegister_RequiredMessage(t *testing.T) {
	errs := ValidateRegister("", "")
	assert.Equal(t, "Username and password are required", errs.Message())
}

func TestValidateLogin_NoLengthRule(t *testing.T) {
	assert.False(t, ValidateLogin("alice", "wrong").HasErrors())
	assert.True(t, ValidateLogin("alice", "").HasErrors())
}

func TestValidatePicture(t *testing.T) {
	assert.False(t, ValidatePicture("", 0, 10).HasErrors())
	assert.False(t, ValidatePicture("image/png", 10, 10).HasErrors())
	assert.True(t, ValidatePicture("application/pdf", 10, 10).HasErrors())
	assert.True(t, ValidatePicture("image/png", 11, 10).HasErrors())
}

func TestValidateTask(t *testing.T) {
	bad := types.TaskStatus("Done-ish")
	errs := ValidateTask("", 0, &bad, nil)
	assert.Len(t, errs, 3)
	assert.Equal(t, "Project id is required; Unknown task status; Task title is required", errs.Message())

	ok := types.StatusWorkInProgress
	assert.False(t, ValidateTask("Ship", 1, &ok, nil).HasErrors())
}

func TestValidationErrors_AddKeepsFirst(t *testing.T) {
	errs := make(ValidationErrors)
	errs.Add("f", "first")
	errs.Add("f", "second")
	assert.Equal(t, "first", errs["f"])
}
