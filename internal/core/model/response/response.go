package response

import "todoapi/internal/core/domain"

type TodoResponse struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type UserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Message string            `json:"message,omitempty"`
	Errors  []ValidationError `json:"errors"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

func NewTodoResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:        todo.ID,
		Text:      todo.Text,
		Completed: todo.Completed,
	}
}

func NewTodoListResponse(todos []domain.Todo) []TodoResponse {
	data := make([]TodoResponse, 0, len(todos))

	for _, todo := range todos {
		data = append(data, NewTodoResponse(todo))
	}

	return data
}

func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
	}
}
