package domain

import (
	"time"
)

// Customer представляет собой модель клиента в хранилище
type Customer struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Age       int       `json:"age" db:"age"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CustomerRequest представляет запрос на создание/обновление клиента.
// Поля не валидируются: пустые значения сохраняются как есть.
type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// CustomerResponse представляет клиента в ответе API
type CustomerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// NewCustomer создает новую сущность из запроса. ID и временные метки
// назначаются хранилищем.
func NewCustomer(req CustomerRequest) Customer {
	return Customer{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
	}
}

// Apply перезаписывает имя, email и возраст значениями из запроса
func (c *Customer) Apply(req CustomerRequest) {
	c.Name = req.Name
	c.Email = req.Email
	c.Age = req.Age
}

// IsNew сообщает, что сущность еще не сохранялась
func (c Customer) IsNew() bool {
	return c.ID == 0
}

// NewCustomerResponse проецирует сущность в ответ API
func NewCustomerResponse(c Customer) CustomerResponse {
	return CustomerResponse{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Age:   c.Age,
	}
}

// NewCustomerResponses проецирует список, сохраняя порядок
func NewCustomerResponses(customers []Customer) []CustomerResponse {
	responses := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		responses = append(responses, NewCustomerResponse(c))
	}
	return responses
}
