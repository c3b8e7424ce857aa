package validator

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/taskpulse/apiserver/types"
)

const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
	MaxUsernameLength = 50
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; exists {
		return
	}
	v[field] = message
}

// Message flattens the errors into one line, ordered by field name.
func (v ValidationErrors) Message() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, v[field])
	}
	return strings.Join(messages, "; ")
}

func ValidateRegister(username, password string) ValidationErrors {
	errs := make(ValidationErrors)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		errs.Add("credentials", "Username and password are required")
		return errs
	}

	if utf8.RuneCountInString(username) > MaxUsernameLength {
		errs.Add("username", "Username is too long")
	}
	if strings.ContainsAny(username, " \t\r\n") {
		errs.Add("username", "Username cannot contain whitespace")
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		errs.Add("password", "Password must be at least 6 characters long")
	} else if len(password) > MaxPasswordBytes {
		errs.Add("password", "Password is too long")
	}

	return errs
}

func ValidateLogin(username, password string) ValidationErrors {
	errs := make(ValidationErrors)
	if strings.TrimSpace(username) == "" || password == "" {
		errs.Add("credentials", "Username and password are required")
	}
	return errs
}

// ValidatePicture checks an optional profile picture. A zero size means no
// picture was sent.
func ValidatePicture(contentType string, size, maxBytes int64) ValidationErrors {
	errs := make(ValidationErrors)
	if size == 0 {
		return errs
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		errs.Add("profilePicture", "Profile picture must be an image file")
		return errs
	}
	if maxBytes > 0 && size > maxBytes {
		errs.Add("profilePicture", "Profile picture is too large")
	}
	return errs
}

func ValidateProject(name string) ValidationErrors {
	errs := make(ValidationErrors)

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Project name is required")
	} else if utf8.RuneCountInString(name) > 200 {
		errs.Add("name", "Project name is too long")
	}

	return errs
}

func ValidateTask(title string, projectID int, status *types.TaskStatus, priority *types.TaskPriority) ValidationErrors {
	errs := make(ValidationErrors)

	title = strings.TrimSpace(title)
	if title == "" {
		errs.Add("title", "Task title is required")
	} else if utf8.RuneCountInString(title) > 200 {
		errs.Add("title", "Task title is too long")
	}

	if projectID < 1 {
		errs.Add("projectId", "Project id is required")
	}
	if status != nil && !status.Valid() {
		errs.Add("status", "Unknown task status")
	}
	if priority != nil && !priority.Valid() {
		errs.Add("priority", "Unknown task priority")
	}

	return errs
}

func ValidateStatus(status types.TaskStatus) ValidationErrors {
	errs := make(ValidationErrors)
	if !status.Valid() {
		errs.Add("status", "Unknown task status")
	}
	return errs
}
