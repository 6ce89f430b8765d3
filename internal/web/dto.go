package web

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbilling/invoiceledger/internal/models"
	"github.com/openbilling/invoiceledger/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token  string         `json:"token"`
	Seller sellerResponse `json:"seller"`
}

type sellerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func toSellerResponse(s *models.Seller) sellerResponse {
	return sellerResponse{
		ID:      s.ID,
		Name:    s.Name,
		Email:   s.Email,
		Phone:   s.Phone,
		Address: s.Address,
	}
}

type productRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
}

func (r productRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		Stock:       r.Stock,
	}
}

type productResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Stock       int             `json:"stock"`
}

func toProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Stock:       p.Stock,
	}
}

type customerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (r customerRequest) toInput() service.CustomerInput {
	return service.CustomerInput{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

type customerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func toCustomerResponse(c *models.Customer) customerResponse {
	return customerResponse{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
	}
}

type invoiceLineRequest struct {
	ProductID  string          `json:"product_id"`
	NewProduct *productRequest `json:"new_product"`
	Quantity   int             `json:"quantity"`
	Discount   decimal.Decimal `json:"discount"`
}

type createInvoiceRequest struct {
	CustomerID  string               `json:"customer_id"`
	NewCustomer *customerRequest     `json:"new_customer"`
	Tax         decimal.Decimal      `json:"tax"`
	Lines       []invoiceLineRequest `json:"lines"`
}

func (r createInvoiceRequest) toInput() service.CreateInvoiceInput {
	in := service.CreateInvoiceInput{
		CustomerID: r.CustomerID,
		Tax:        r.Tax,
	}
	if r.NewCustomer != nil {
		c := r.NewCustomer.toInput()
		in.NewCustomer = &c
	}
	for _, line := range r.Lines {
		lineIn := service.InvoiceLineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Discount:  line.Discount,
		}
		if line.NewProduct != nil {
			p := line.NewProduct.toInput()
			lineIn.NewProduct = &p
		}
		in.Lines = append(in.Lines, lineIn)
	}
	return in
}

type editInvoiceRequest struct {
	Status    *string                   `json:"status"`
	Tax       *decimal.Decimal          `json:"tax"`
	Discounts map[int64]decimal.Decimal `json:"discounts"`
}

func (r editInvoiceRequest) toInput() service.EditInvoiceInput {
	in := service.EditInvoiceInput{
		Tax:       r.Tax,
		Discounts: r.Discounts,
	}
	if r.Status != nil {
		status := models.InvoiceStatus(*r.Status)
		in.Status = &status
	}
	return in
}

type invoiceLineResponse struct {
	ID          int64           `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Discount    decimal.Decimal `json:"discount"`
}

type invoiceResponse struct {
	No        string                `json:"no"`
	CreatedAt time.Time             `json:"created_at"`
	Status    string                `json:"status"`
	Tax       decimal.Decimal       `json:"tax"`
	Amount    decimal.Decimal       `json:"amount"`
	Customer  *customerResponse     `json:"customer,omitempty"`
	Lines     []invoiceLineResponse `json:"lines,omitempty"`
}

func toInvoiceResponse(inv *models.Invoice) invoiceResponse {
	resp := invoiceResponse{
		No:        inv.No,
		CreatedAt: inv.CreatedAt,
		Status:    string(inv.Status),
		Tax:       inv.Tax,
		Amount:    inv.Amount,
	}
	if inv.Customer != nil {
		c := toCustomerResponse(inv.Customer)
		resp.Customer = &c
	}
	for _, line := range inv.Lines {
		resp.Lines = append(resp.Lines, invoiceLineResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Discount:    line.Discount,
		})
	}
	return resp
}

type activityResponse struct {
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type dashboardResponse struct {
	TotalProducts    int                `json:"total_products"`
	TotalCustomers   int                `json:"total_customers"`
	TotalInvoices    int                `json:"total_invoices"`
	PaidInvoices     int                `json:"paid_invoices"`
	UnpaidInvoices   int                `json:"unpaid_invoices"`
	RevenueCollected decimal.Decimal    `json:"revenue_collected"`
	RevenueDue       decimal.Decimal    `json:"revenue_due"`
	RecentActivity   []activityResponse `json:"recent_activity"`
}

func toDashboardResponse(d *service.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		TotalProducts:    d.Stats.TotalProducts,
		TotalCustomers:   d.Stats.TotalCustomers,
		TotalInvoices:    d.Stats.TotalInvoices,
		PaidInvoices:     d.Stats.PaidInvoices,
		UnpaidInvoices:   d.Stats.UnpaidInvoices,
		RevenueCollected: d.Stats.RevenueCollected,
		RevenueDue:       d.Stats.RevenueDue,
	}
	for _, a := range d.Recent {
		resp.RecentActivity = append(resp.RecentActivity, activityResponse{
			Kind:        a.Kind,
			Description: a.Description,
			CreatedAt:   a.CreatedAt,
		})
	}
	return resp
}
