package web

import (
	"fmt"
	"net/http"

	"github.com/openbilling/invoiceledger/internal/auth"
	"github.com/openbilling/invoiceledger/internal/middleware"
	"github.com/openbilling/invoiceledger/internal/render"
	"github.com/openbilling/invoiceledger/internal/service"
)

// Routes returns the API mux. Everything except registration, login and
// health requires a valid bearer token.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)

	protected := http.NewServeMux()
	protected.HandleFunc("POST /api/auth/logout", h.handleLogout)

	protected.HandleFunc("GET /api/products", h.handleListProducts)
	protected.HandleFunc("POST /api/products", h.handleCreateProduct)
	protected.HandleFunc("GET /api/products/{id}", h.handleGetProduct)
	protected.HandleFunc("PUT /api/products/{id}", h.handleUpdateProduct)
	protected.HandleFunc("DELETE /api/products/{id}", h.handleDeleteProduct)

	protected.HandleFunc("GET /api/customers", h.handleListCustomers)
	protected.HandleFunc("POST /api/customers", h.handleCreateCustomer)
	protected.HandleFunc("PUT /api/customers/{id}", h.handleUpdateCustomer)
	protected.HandleFunc("GET /api/customers/{id}/invoices", h.handleCustomerInvoices)

	protected.HandleFunc("GET /api/invoices", h.handleListInvoices)
	protected.HandleFunc("POST /api/invoices", h.handleCreateInvoice)
	protected.HandleFunc("GET /api/invoices/{no}", h.handleGetInvoice)
	protected.HandleFunc("PUT /api/invoices/{no}", h.handleEditInvoice)
	protected.HandleFunc("GET /api/invoices/{no}/pdf", h.handleInvoicePDF)

	protected.HandleFunc("GET /api/dashboard", h.handleDashboard)

	mux.Handle("/api/", middleware.RequireAuth(h.jwt, protected))
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	seller, token, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, Seller: toSellerResponse(seller)})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	seller, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, Seller: toSellerResponse(seller)})
}

// handleLogout is a no-op on the server: tokens are stateless and simply
// expire. The endpoint exists so clients can drop their session through
// a uniform API.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetIdentity(r.Context())
	products, err := h.catalog.ListProducts(r.Context(), actor, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	actor := middleware.GetIdentity(r.Context())
	product, err := h.catalog.CreateProduct(r.Context(), actor, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetIdentity(r.Context())
	product, err := h.catalog.GetProduct(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	actor := middleware.GetIdentity(r.Context())
	product, err := h.catalog.UpdateProduct(r.Context(), actor, r.PathValue("id"), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetIdentity(r.Context())
	if err := h.catalog.DeleteProduct(r.Context(), actor, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetIdentity(r.Context())
	customers, err := h.customers.ListCustomers(r.Context(), actor, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, toCustomerResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	actor := middleware.GetIdentity(r.Context())
	customer, err := h.customers.CreateCustomer(r.Context(), actor, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

func (h *Handler) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	actor := middleware.GetIdentity(r.Context())
	customer, err := h.customers.UpdateCustomer(r.Context(), actor, r.PathValue("id"), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *Handler) handleCustomerInvoices(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetIdentity(r.Context())
	invoices, err := h.customers.ListCustomerInvoices(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		resp = append(resp, toInvoiceResponse(inv))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.InvoiceQuery{
		Number:    q.Get("number"),
		Customer:  q.Get("customer"),
		Status:    q.Get("status"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		MinAmount: q.Get("min_amount"),
		MaxAmount: q.Get("max_amount"),
	}

	actor := middleware.GetIdentity(r.Context())
	invoices, err := h.invoices.ListInvoices(r.Context(), actor, query)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		resp = append(resp, toInvoiceResponse(inv))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	actor := middleware.GetIdentity(r.Context())
	invoice, err := h.invoices.CreateInvoice(r.Context(), actor, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceResponse(invoice))
}

func (h *Handler) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetIdentity(r.Context())
	invoice, err := h.invoices.GetInvoice(r.Context(), actor, r.PathValue("no"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(invoice))
}

func (h *Handler) handleEditInvoice(w http.ResponseWriter, r *http.Request) {
	var req editInvoiceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	actor := middleware.GetIdentity(r.Context())
	invoice, err := h.invoices.EditInvoice(r.Context(), actor, r.PathValue("no"), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(invoice))
}

func (h *Handler) handleInvoicePDF(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetIdentity(r.Context())
	invoice, err := h.invoices.GetInvoice(r.Context(), actor, r.PathValue("no"))
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := render.InvoicePDF(invoice)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", invoice.No+".pdf"))
	_, _ = w.Write(doc)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetIdentity(r.Context())
	dashboard, err := h.dashboard.Overview(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardResponse(dashboard))
}
