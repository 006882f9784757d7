package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	. "todoapi/internal/adapter/http/helper"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
	"todoapi/pkg/config"
	. "todoapi/pkg/tracing"
)

type TodoHandler struct {
	svc    port.TodoService
	Logger *config.Logger
}

func NewTodoHandler(svc port.TodoService, logger *config.Logger) *TodoHandler {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	return &TodoHandler{
		svc:    svc,
		Logger: logger,
	}
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.CreateTodo", handlerAttributes(c, "CreateTodo"))
	defer span.End()

	payload, ok := ValidatedJSON[domain.CreateTodo](c)

	if !ok {
		AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusBadRequest)
		return
	}

	todo, err := t.svc.Create(ctx, payload)

	if err != nil {
		t.failed(c, span, "Failed to create todo", err)
		return
	}

	span.SetAttributes(attribute.Int("todo.id", todo.ID))
	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusCreated)

	c.JSON(http.StatusCreated, response.NewTodoResponse(todo))
}

func (t *TodoHandler) FindTodo(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.FindTodo", handlerAttributes(c, "FindTodo"))
	defer span.End()

	id, ok := todoID(c)

	if !ok {
		return
	}

	todo, err := t.svc.Find(ctx, id)

	if err != nil {
		t.failed(c, span, "Failed to find todo", err)
		return
	}

	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	c.JSON(http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) AllTodos(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.AllTodos", handlerAttributes(c, "AllTodos"))
	defer span.End()

	todos, err := t.svc.All(ctx)

	if err != nil {
		t.failed(c, span, "Failed to list todos", err)
		return
	}

	span.SetAttributes(attribute.Int("todo.count", len(todos)))
	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	c.JSON(http.StatusOK, response.NewTodoListResponse(todos))
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.UpdateTodo", handlerAttributes(c, "UpdateTodo"))
	defer span.End()

	id, ok := todoID(c)

	if !ok {
		return
	}

	payload, ok := ValidatedJSON[domain.UpdateTodo](c)

	if !ok {
		AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusBadRequest)
		return
	}

	todo, err := t.svc.Update(ctx, id, payload)

	if err != nil {
		t.failed(c, span, "Failed to update todo", err)
		return
	}

	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	c.JSON(http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.DeleteTodo", handlerAttributes(c, "DeleteTodo"))
	defer span.End()

	id, ok := todoID(c)

	if !ok {
		return
	}

	if err := t.svc.Delete(ctx, id); err != nil {
		t.failed(c, span, "Failed to delete todo", err)
		return
	}

	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusNoContent)

	c.Status(http.StatusNoContent)
}

// failed maps a service error to its response: 404 for a missing todo, 500
// for anything else.
func (t *TodoHandler) failed(c *gin.Context, span trace.Span, message string, err error) {
	if domain.IsNotFound(err) {
		AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusNotFound)
		SendNotFound(c)
		return
	}

	AddSpanError(span, err)
	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusInternalServerError)

	t.Logger.ErrorWithTrace(c.Request.Context(), message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)

	SendInternalError(c, message)
}

func todoID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		SendBadRequestError(c, "id", "id must be an integer")
		return 0, false
	}

	return id, true
}

func handlerAttributes(c *gin.Context, operation string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("handler.operation", operation),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	}
}
