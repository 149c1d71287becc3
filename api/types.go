package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ResponseValue is a decoded response body plus the status and headers it
// arrived with.
type ResponseValue[T any] struct {
	Inner      T
	StatusCode int
	Headers    http.Header
}

type Address struct {
	Street1 string `json:"street1,omitempty"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city,omitempty"`
	County  string `json:"county,omitempty"`
	State   string `json:"state,omitempty"`
	Zip1    string `json:"zip1,omitempty"`
	Zip2    string `json:"zip2,omitempty"`
	Country string `json:"country,omitempty"`
}

func (a Address) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.State, validation.Required),
		validation.Field(&a.Zip1, validation.Required),
	)
}

type Party struct {
	FirstName   string  `json:"firstName,omitempty"`
	LastName    string  `json:"lastName,omitempty"`
	Company     string  `json:"company,omitempty"`
	Email       string  `json:"email,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	DateOfBirth string  `json:"dateOfBirth,omitempty"`
	Address     Address `json:"address"`
}

func (p Party) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Address),
	)
}

type LineItem struct {
	ProductKey       string  `json:"productKey"`
	BrandKey         string  `json:"brandKey"`
	ProductQuantity  int     `json:"productQuantity"`
	ProductUnitPrice float64 `json:"productUnitPrice"`
	Discount         float64 `json:"discount,omitempty"`
}

func (l LineItem) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.ProductKey, validation.Required),
		validation.Field(&l.BrandKey, validation.Required),
		validation.Field(&l.ProductQuantity, validation.Required, validation.Min(1)),
		validation.Field(&l.ProductUnitPrice, validation.Min(0.0)),
	)
}

type Shipment struct {
	ShipmentKey         string     `json:"shipmentKey"`
	ShipDate            string     `json:"shipDate,omitempty"`
	ShippingService     string     `json:"shippingService,omitempty"`
	LicenseRelationship string     `json:"licenseRelationship,omitempty"`
	FulfillmentType     string     `json:"fulfillmentType,omitempty"`
	Handling            float64    `json:"handling,omitempty"`
	ShipTo              Party      `json:"shipTo"`
	LineItems           []LineItem `json:"lineItems"`
}

func (s Shipment) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ShipmentKey, validation.Required),
		validation.Field(&s.ShipTo),
		validation.Field(&s.LineItems, validation.Required),
	)
}

type SalesOrder struct {
	SalesOrderKey     string     `json:"salesOrderKey"`
	CustomerKey       string     `json:"customerKey,omitempty"`
	OrderType         string     `json:"orderType,omitempty"`
	PurchaseDate      string     `json:"purchaseDate,omitempty"`
	SalesTaxCollected float64    `json:"salesTaxCollected,omitempty"`
	BillTo            *Party     `json:"billTo,omitempty"`
	Shipments         []Shipment `json:"shipments"`
	Tags              []string   `json:"tags,omitempty"`
}

func (o SalesOrder) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.SalesOrderKey, validation.Required),
		validation.Field(&o.BillTo),
		validation.Field(&o.Shipments, validation.Required),
	)
}

type Payment struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

func (p Payment) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Type, validation.Required),
	)
}

type Product struct {
	ProductKey     string  `json:"productKey"`
	BrandKey       string  `json:"brandKey"`
	Description    string  `json:"description"`
	ProductType    string  `json:"productType"`
	UnitPrice      float64 `json:"unitPrice,omitempty"`
	VolumeAmount   float64 `json:"volumeAmount,omitempty"`
	VolumeUnit     string  `json:"volumeUnit,omitempty"`
	PercentAlcohol float64 `json:"percentAlcohol,omitempty"`
	Vintage        int     `json:"vintage,omitempty"`
	UPC            string  `json:"upc,omitempty"`
}

func (p Product) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ProductKey, validation.Required),
		validation.Field(&p.BrandKey, validation.Required),
		validation.Field(&p.Description, validation.Required),
		validation.Field(&p.ProductType, validation.Required),
		validation.Field(&p.PercentAlcohol, validation.Min(0.0), validation.Max(100.0)),
	)
}

type Brand struct {
	BrandKey    string `json:"brandKey"`
	Name        string `json:"name"`
	Producer    string `json:"producer,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	StateCode   string `json:"stateCode,omitempty"`
}

func (b Brand) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.BrandKey, validation.Required),
		validation.Field(&b.Name, validation.Required),
	)
}

const (
	CommitAllShipments       = "AllShipments"
	CommitCompliantShipments = "CompliantShipments"
)

type QuoteSalesTaxRateRequest struct {
	Address       Address `json:"address"`
	EffectiveDate string  `json:"effectiveDate,omitempty"`
}

func (r QuoteSalesTaxRateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Address),
	)
}

type QuoteSalesTaxRequest struct {
	SalesOrder SalesOrder `json:"salesOrder"`
}

func (r QuoteSalesTaxRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SalesOrder),
	)
}

type CheckComplianceRequest struct {
	SalesOrder           SalesOrder `json:"salesOrder"`
	IncludeSalesTaxRates bool       `json:"includeSalesTaxRates,omitempty"`
	AddressOption        string     `json:"addressOption,omitempty"`
}

func (r CheckComplianceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SalesOrder),
	)
}

type CommitSalesOrderRequest struct {
	SalesOrderKey string    `json:"salesOrderKey"`
	CommitOption  string    `json:"commitOption,omitempty"`
	Payments      []Payment `json:"payments,omitempty"`
}

func (r CommitSalesOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SalesOrderKey, validation.Required),
		validation.Field(&r.CommitOption, validation.In(CommitAllShipments, CommitCompliantShipments)),
		validation.Field(&r.Payments),
	)
}

type PersistSalesOrderRequest struct {
	SalesOrder         SalesOrder `json:"salesOrder"`
	OverrideCompliance bool       `json:"overrideCompliance,omitempty"`
}

func (r PersistSalesOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SalesOrder),
	)
}

type UpsertProductRequest struct {
	Product Product `json:"product"`
}

func (r UpsertProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Product),
	)
}

type UpsertBrandRequest struct {
	Brand Brand `json:"brand"`
}

func (r UpsertBrandRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Brand),
	)
}

type SalesOrderResponse struct {
	ResponseStatus string     `json:"responseStatus"`
	SalesOrder     SalesOrder `json:"salesOrder"`
	Status         string     `json:"status,omitempty"`
}

type TrackingEvent struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
}

type ShipmentTracking struct {
	ShipmentKey    string          `json:"shipmentKey"`
	Carrier        string          `json:"carrier,omitempty"`
	TrackingNumber string          `json:"trackingNumber,omitempty"`
	Status         string          `json:"status,omitempty"`
	Events         []TrackingEvent `json:"events,omitempty"`
}

type TrackingResponse struct {
	ResponseStatus string             `json:"responseStatus"`
	SalesOrderKey  string             `json:"salesOrderKey"`
	Shipments      []ShipmentTracking `json:"shipments"`
}

type TaxRate struct {
	JurisdictionName string  `json:"jurisdictionName"`
	JurisdictionType string  `json:"jurisdictionType"`
	Rate             float64 `json:"rate"`
}

type SalesTaxRateResponse struct {
	ResponseStatus string    `json:"responseStatus"`
	TaxRates       []TaxRate `json:"taxRates"`
	TotalRate      float64   `json:"totalRate"`
}

type ShipmentSalesTax struct {
	ShipmentKey string    `json:"shipmentKey"`
	SalesTaxDue float64   `json:"salesTaxDue"`
	TaxRates    []TaxRate `json:"taxRates,omitempty"`
}

type SalesTaxQuoteResponse struct {
	ResponseStatus   string             `json:"responseStatus"`
	SalesOrderKey    string             `json:"salesOrderKey"`
	Shipments        []ShipmentSalesTax `json:"shipments"`
	TotalSalesTaxDue float64            `json:"totalSalesTaxDue"`
}

type RuleResult struct {
	RuleType    string `json:"ruleType"`
	Description string `json:"description,omitempty"`
	IsCompliant bool   `json:"isCompliant"`
}

type ShipmentCompliance struct {
	ShipmentKey string       `json:"shipmentKey"`
	IsCompliant bool         `json:"isCompliant"`
	Rules       []RuleResult `json:"rules,omitempty"`
}

type ComplianceResponse struct {
	ResponseStatus string               `json:"responseStatus"`
	SalesOrderKey  string               `json:"salesOrderKey"`
	IsCompliant    bool                 `json:"isCompliant"`
	Shipments      []ShipmentCompliance `json:"shipments"`
	TaxRates       []TaxRate            `json:"taxRates,omitempty"`
}

type Message struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// OperationResponse acknowledges commit, persist and void.
type OperationResponse struct {
	ResponseStatus string    `json:"responseStatus"`
	SalesOrderKey  string    `json:"salesOrderKey,omitempty"`
	Messages       []Message `json:"messages,omitempty"`
}

type ProductResponse struct {
	ResponseStatus string  `json:"responseStatus"`
	Product        Product `json:"product"`
}

type BrandResponse struct {
	ResponseStatus string `json:"responseStatus"`
	Brand          Brand  `json:"brand"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Target  string `json:"target,omitempty"`
}

// ErrorBody is the documented error document returned with 4xx/5xx statuses.
type ErrorBody struct {
	ResponseStatus string        `json:"responseStatus,omitempty"`
	ErrorCode      string        `json:"errorCode,omitempty"`
	Message        string        `json:"message,omitempty"`
	Errors         []ErrorDetail `json:"errors,omitempty"`
}
