package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Allocate rewards for a completed transaction
	// (POST /allocations)
	Allocate(w http.ResponseWriter, r *http.Request)
	// Enqueue an allocation for asynchronous processing
	// (POST /allocations/queue)
	QueueAllocation(w http.ResponseWriter, r *http.Request)
	// Register a beneficiary account
	// (POST /accounts)
	CreateAccount(w http.ResponseWriter, r *http.Request)
	// List accounts of one beneficiary type
	// (GET /accounts/{type})
	ListAccounts(w http.ResponseWriter, r *http.Request, accountType string)
	// Get one account
	// (GET /accounts/{type}/{id})
	GetAccount(w http.ResponseWriter, r *http.Request, accountType string, accountId string)
	// Get the escrowed reward for a phone number
	// (GET /pending/{phone})
	GetPending(w http.ResponseWriter, r *http.Request, phone string)
	// Claim the escrowed reward into a customer account
	// (POST /pending/{phone}/claim)
	ClaimPending(w http.ResponseWriter, r *http.Request, phone string)
}

// InvalidParamFormatError is passed to the error handler when a path parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ServerInterfaceWrapper converts chi contexts to handler parameters.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) bindPath(w http.ResponseWriter, r *http.Request, name string, dest *string) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

// Allocate operation middleware
func (siw *ServerInterfaceWrapper) Allocate(w http.ResponseWriter, r *http.Request) {
	siw.Handler.Allocate(w, r)
}

// QueueAllocation operation middleware
func (siw *ServerInterfaceWrapper) QueueAllocation(w http.ResponseWriter, r *http.Request) {
	siw.Handler.QueueAllocation(w, r)
}

// CreateAccount operation middleware
func (siw *ServerInterfaceWrapper) CreateAccount(w http.ResponseWriter, r *http.Request) {
	siw.Handler.CreateAccount(w, r)
}

// ListAccounts operation middleware
func (siw *ServerInterfaceWrapper) ListAccounts(w http.ResponseWriter, r *http.Request) {
	var accountType string
	if !siw.bindPath(w, r, "type", &accountType) {
		return
	}
	siw.Handler.ListAccounts(w, r, accountType)
}

// GetAccount operation middleware
func (siw *ServerInterfaceWrapper) GetAccount(w http.ResponseWriter, r *http.Request) {
	var accountType, accountId string
	if !siw.bindPath(w, r, "type", &accountType) || !siw.bindPath(w, r, "id", &accountId) {
		return
	}
	siw.Handler.GetAccount(w, r, accountType, accountId)
}

// GetPending operation middleware
func (siw *ServerInterfaceWrapper) GetPending(w http.ResponseWriter, r *http.Request) {
	var phone string
	if !siw.bindPath(w, r, "phone", &phone) {
		return
	}
	siw.Handler.GetPending(w, r, phone)
}

// ClaimPending operation middleware
func (siw *ServerInterfaceWrapper) ClaimPending(w http.ResponseWriter, r *http.Request) {
	var phone string
	if !siw.bindPath(w, r, "phone", &phone) {
		return
	}
	siw.Handler.ClaimPending(w, r, phone)
}

// HandlerFromMux creates http.Handler with routing matching the rewards API,
// registering the routes on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		},
	}

	r.Post("/allocations", wrapper.Allocate)
	r.Post("/allocations/queue", wrapper.QueueAllocation)
	r.Post("/accounts", wrapper.CreateAccount)
	r.Get("/accounts/{type}", wrapper.ListAccounts)
	r.Get("/accounts/{type}/{id}", wrapper.GetAccount)
	r.Get("/pending/{phone}", wrapper.GetPending)
	r.Post("/pending/{phone}/claim", wrapper.ClaimPending)

	return r
}
