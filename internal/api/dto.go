package api

import (
	"bytes"
	"fmt"
	"time"

	"github.com/medikart/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Wire types follow the backend's field names. The backend encodes
// decimal columns as JSON strings and computed amounts as numbers, so
// money fields use flexDecimal to accept both.

// flexDecimal tolerates both `"15000.00"` and `15000` on the wire.
type flexDecimal struct {
	decimal.Decimal
}

func (d *flexDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		d.Decimal = decimal.Zero
		return nil
	}

	parsed, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("decimal.NewFromString: %w", err)
	}

	d.Decimal = parsed
	return nil
}

const orderTimeLayout = "2006-01-02 15:04:05"

type productDTO struct {
	ID          int64       `json:"id_obat"`
	Name        string      `json:"nama_obat"`
	SalePrice   flexDecimal `json:"harga_jual"`
	Stock       int         `json:"stok"`
	Photo       *string     `json:"foto"`
	ExpiredDate *string     `json:"expired_date"`
}

type customerDTO struct {
	ID      int64  `json:"id_pelanggan"`
	Name    string `json:"nama"`
	Email   string `json:"email"`
	Phone   string `json:"telepon"`
	Address string `json:"alamat"`
}

type orderLineDTO struct {
	ProductID int64   `json:"id_obat"`
	Quantity  int     `json:"jumlah"`
	UnitPrice float64 `json:"harga_satuan"`
	Subtotal  float64 `json:"subtotal"`
}

type orderRequestDTO struct {
	CustomerID    int64          `json:"id_pelanggan"`
	Date          string         `json:"tanggal"`
	TotalAmount   float64        `json:"total_harga"`
	AmountPaid    float64        `json:"bayar"`
	ChangeDue     float64        `json:"kembalian"`
	PaymentMethod string         `json:"metode_pembayaran"`
	Lines         []orderLineDTO `json:"items"`
}

type orderResponseDTO struct {
	ID            int64       `json:"id_penjualan"`
	CustomerID    int64       `json:"id_pelanggan"`
	Date          string      `json:"tanggal"`
	TotalAmount   flexDecimal `json:"total_harga"`
	AmountPaid    flexDecimal `json:"bayar"`
	ChangeDue     flexDecimal `json:"kembalian"`
	PaymentMethod string      `json:"metode_pembayaran"`
	Lines         []struct {
		ProductID int64       `json:"id_obat"`
		Quantity  int         `json:"jumlah"`
		UnitPrice flexDecimal `json:"harga_satuan"`
		Subtotal  flexDecimal `json:"subtotal"`
	} `json:"penjualan_details"`
}

type messageDTO struct {
	Message string `json:"message"`
}

func mapProductDTO(dto productDTO, unit currency.Unit, photoBase string) (domain.Product, error) {
	if dto.SalePrice.IsNegative() {
		return domain.Product{}, fmt.Errorf("product[%d] has negative price", dto.ID)
	}
	if dto.Stock < 0 {
		return domain.Product{}, fmt.Errorf("product[%d] has negative stock", dto.ID)
	}

	p := domain.Product{
		ID:        dto.ID,
		Name:      dto.Name,
		UnitPrice: domain.NewMoney(dto.SalePrice.Decimal, unit),
		Stock:     dto.Stock,
	}

	if dto.Photo != nil && *dto.Photo != "" {
		url := photoBase + *dto.Photo
		p.PhotoURL = &url
	}

	if dto.ExpiredDate != nil && *dto.ExpiredDate != "" {
		// the backend stores dates without a zone
		parsed, err := time.Parse("2006-01-02", *dto.ExpiredDate)
		if err == nil {
			p.ExpiryDate = &parsed
		}
	}

	return p, nil
}

func mapCustomerDTO(dto customerDTO) domain.Customer {
	return domain.Customer{
		ID:      dto.ID,
		Name:    dto.Name,
		Email:   dto.Email,
		Phone:   dto.Phone,
		Address: dto.Address,
	}
}

func mapOrderToDTO(order domain.Order) orderRequestDTO {
	lines := make([]orderLineDTO, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, orderLineDTO{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.Amount.InexactFloat64(),
			Subtotal:  line.Subtotal.Amount.InexactFloat64(),
		})
	}

	return orderRequestDTO{
		CustomerID:    order.CustomerID,
		Date:          order.Timestamp.Format(orderTimeLayout),
		TotalAmount:   order.TotalAmount.Amount.InexactFloat64(),
		AmountPaid:    order.AmountPaid.Amount.InexactFloat64(),
		ChangeDue:     order.ChangeDue.Amount.InexactFloat64(),
		PaymentMethod: string(order.PaymentMethod),
		Lines:         lines,
	}
}

func mapOrderResponseDTO(dto orderResponseDTO, unit currency.Unit) domain.OrderConfirmation {
	conf := domain.OrderConfirmation{
		OrderID:       dto.ID,
		CustomerID:    dto.CustomerID,
		TotalAmount:   domain.NewMoney(dto.TotalAmount.Decimal, unit),
		AmountPaid:    domain.NewMoney(dto.AmountPaid.Decimal, unit),
		ChangeDue:     domain.NewMoney(dto.ChangeDue.Decimal, unit),
		PaymentMethod: domain.PaymentMethod(dto.PaymentMethod),
	}

	if ts, err := time.Parse(orderTimeLayout, dto.Date); err == nil {
		conf.Timestamp = ts
	}

	for _, line := range dto.Lines {
		conf.Lines = append(conf.Lines, domain.OrderLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: domain.NewMoney(line.UnitPrice.Decimal, unit),
			Subtotal:  domain.NewMoney(line.Subtotal.Decimal, unit),
		})
	}

	return conf
}
