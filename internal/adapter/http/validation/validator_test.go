package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/response"
)

func TestValidate_CreateTodo(t *testing.T) {
	assert.Nil(t, Validate(domain.CreateTodo{Text: "a"}))
	assert.Nil(t, Validate(domain.CreateTodo{Text: strings.Repeat("x", 100)}))

	violations := Validate(domain.CreateTodo{Text: ""})

	assert.Len(t, violations, 1)
	assert.Equal(t, "text", violations[0].Field)
	assert.Equal(t, "text must be at least 1 character in length", violations[0].Message)

	violations = Validate(domain.CreateTodo{Text: strings.Repeat("x", 101)})

	assert.Len(t, violations, 1)
	assert.Equal(t, "text must be a maximum of 100 characters in length", violations[0].Message)
}

func TestValidate_UpdateTodo(t *testing.T) {
	empty := ""
	long := strings.Repeat("y", 101)
	ok := "fine"

	assert.Nil(t, Validate(domain.UpdateTodo{}))
	assert.Nil(t, Validate(domain.UpdateTodo{Text: &ok}))
	assert.Len(t, Validate(domain.UpdateTodo{Text: &empty}), 1)
	assert.Len(t, Validate(domain.UpdateTodo{Text: &long}), 1)
}

func TestMessage(t *testing.T) {
	message := Message([]response.ValidationError{
		{Field: "text", Message: "text must be at least 1 character in length"},
		{Field: "completed", Message: "completed is invalid"},
	})

	assert.Equal(t, "Validation error: [text: text must be at least 1 character in length, completed: completed is invalid]", message)
	assert.NotContains(t, message, "\n")
}
