package handler

import (
	"net/http"
	"strings"
	"testing"

	"eshop/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCategoryHandler(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name           string
		method         string
		pattern        string
		target         string
		body           string
		route          func(h *CategoryHandler) http.HandlerFunc
		setupMock      func(m *MockCategoryService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "list",
			method:  http.MethodGet,
			pattern: "/categories",
			target:  "/categories",
			route:   func(h *CategoryHandler) http.HandlerFunc { return h.GetAll },
			setupMock: func(m *MockCategoryService) {
				m.On("GetAll", mock.Anything).Return([]model.Category{}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:    "create",
			method:  http.MethodPost,
			pattern: "/categories",
			target:  "/categories",
			body:    `{"name":"Books","icon":"book","color":"#fff"}`,
			route:   func(h *CategoryHandler) http.HandlerFunc { return h.Create },
			setupMock: func(m *MockCategoryService) {
				m.On("Create", mock.Anything, &model.CategoryRequest{Name: "Books", Icon: "book", Color: "#fff"}).
					Return(&model.Category{ID: id, Name: "Books", Icon: "book", Color: "#fff"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"id":"` + id.Hex() + `","name":"Books","icon":"book","color":"#fff"}`,
		},
		{
			name:    "get missing",
			method:  http.MethodGet,
			pattern: "/categories/{id}",
			target:  "/categories/" + id.Hex(),
			route:   func(h *CategoryHandler) http.HandlerFunc { return h.GetByID },
			setupMock: func(m *MockCategoryService) {
				m.On("GetByID", mock.Anything, id).Return(nil, model.ErrCategoryNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "update malformed id",
			method:         http.MethodPut,
			pattern:        "/categories/{id}",
			target:         "/categories/42",
			body:           `{"name":"x"}`,
			route:          func(h *CategoryHandler) http.HandlerFunc { return h.Update },
			setupMock:      func(m *MockCategoryService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "update",
			method:  http.MethodPut,
			pattern: "/categories/{id}",
			target:  "/categories/" + id.Hex(),
			body:    `{"name":"Novels"}`,
			route:   func(h *CategoryHandler) http.HandlerFunc { return h.Update },
			setupMock: func(m *MockCategoryService) {
				m.On("Update", mock.Anything, id, &model.CategoryRequest{Name: "Novels"}).
					Return(&model.Category{ID: id, Name: "Novels"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "delete",
			method:  http.MethodDelete,
			pattern: "/categories/{id}",
			target:  "/categories/" + id.Hex(),
			route:   func(h *CategoryHandler) http.HandlerFunc { return h.Delete },
			setupMock: func(m *MockCategoryService) {
				m.On("Delete", mock.Anything, id).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"message":"the category is deleted!"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCategoryService)
			tt.setupMock(mockService)
			h := NewCategoryHandler(mockService, zerolog.Nop())

			w := serve(tt.method, tt.pattern, tt.route(h), tt.target, strings.NewReader(tt.body), "application/json")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}
