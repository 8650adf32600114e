package dto

import (
	"autoparts/internal/core/entity"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/catalogs/brand"
	"autoparts/internal/domain/catalogs/client"
	"autoparts/internal/domain/catalogs/country"
	"autoparts/internal/domain/catalogs/warehouse"
)

// --- Warehouse ---

// WarehouseRequest is the request body for creating or updating a warehouse.
type WarehouseRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`

	// Version, when set, must match the stored version on update
	Version int `json:"version"`
}

// ToEntity converts DTO to domain entity.
func (r WarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(r.Name)
	wh.Address = r.Address
	return wh
}

// ApplyTo applies update DTO to existing entity.
func (r WarehouseRequest) ApplyTo(wh *warehouse.Warehouse) *warehouse.Warehouse {
	wh.Name = r.Name
	wh.Address = r.Address
	setVersion(&wh.BaseEntity, r.Version)
	return wh
}

// WarehouseResponse is the response body for a warehouse.
type WarehouseResponse struct {
	BaseResponse
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// FromWarehouse converts entity to response DTO.
func FromWarehouse(wh *warehouse.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		BaseResponse: FromBase(wh.BaseEntity),
		Name:         wh.Name,
		Address:      wh.Address,
	}
}

// --- Country ---

// CountryRequest is the request body for creating or updating a country.
type CountryRequest struct {
	Name    string `json:"name" binding:"required"`
	FlagURL string `json:"flagUrl"`
	Version int    `json:"version"`
}

// ToEntity converts DTO to domain entity.
func (r CountryRequest) ToEntity() *country.Country {
	c := country.NewCountry(r.Name)
	c.FlagURL = r.FlagURL
	return c
}

// ApplyTo applies update DTO to existing entity.
func (r CountryRequest) ApplyTo(c *country.Country) *country.Country {
	c.Name = r.Name
	c.FlagURL = r.FlagURL
	setVersion(&c.BaseEntity, r.Version)
	return c
}

// CountryResponse is the response body for a country.
type CountryResponse struct {
	BaseResponse
	Name    string `json:"name"`
	FlagURL string `json:"flagUrl,omitempty"`
}

// FromCountry converts entity to response DTO.
func FromCountry(c *country.Country) CountryResponse {
	return CountryResponse{
		BaseResponse: FromBase(c.BaseEntity),
		Name:         c.Name,
		FlagURL:      c.FlagURL,
	}
}

// --- Brand ---

// BrandRequest is the request body for creating or updating a brand.
type BrandRequest struct {
	Name    string `json:"name" binding:"required"`
	LogoURL string `json:"logoUrl"`
	Version int    `json:"version"`
}

// ToEntity converts DTO to domain entity.
func (r BrandRequest) ToEntity() *brand.Brand {
	b := brand.NewBrand(r.Name)
	b.LogoURL = r.LogoURL
	return b
}

// ApplyTo applies update DTO to existing entity.
func (r BrandRequest) ApplyTo(b *brand.Brand) *brand.Brand {
	b.Name = r.Name
	b.LogoURL = r.LogoURL
	setVersion(&b.BaseEntity, r.Version)
	return b
}

// BrandResponse is the response body for a brand.
type BrandResponse struct {
	BaseResponse
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// FromBrand converts entity to response DTO.
func FromBrand(b *brand.Brand) BrandResponse {
	return BrandResponse{
		BaseResponse: FromBase(b.BaseEntity),
		Name:         b.Name,
		LogoURL:      b.LogoURL,
	}
}

// --- Client ---

// ClientRequest is the request body for creating or updating a client.
// There is no balance field: balances move only with sales and payments.
type ClientRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Address     string `json:"address"`
	Version     int    `json:"version"`
}

// ToEntity converts DTO to domain entity.
func (r ClientRequest) ToEntity() *client.Client {
	c := client.NewClient(r.FullName, r.PhoneNumber)
	c.Address = r.Address
	return c
}

// ApplyTo applies update DTO to existing entity.
func (r ClientRequest) ApplyTo(c *client.Client) *client.Client {
	c.FullName = r.FullName
	c.PhoneNumber = r.PhoneNumber
	c.Address = r.Address
	setVersion(&c.BaseEntity, r.Version)
	return c
}

// ClientResponse is the response body for a client.
type ClientResponse struct {
	BaseResponse
	FullName    string      `json:"fullName"`
	PhoneNumber string      `json:"phoneNumber"`
	Address     string      `json:"address,omitempty"`
	Balance     types.Money `json:"balance"`
}

// FromClient converts entity to response DTO.
func FromClient(c *client.Client) ClientResponse {
	return ClientResponse{
		BaseResponse: FromBase(c.BaseEntity),
		FullName:     c.FullName,
		PhoneNumber:  c.PhoneNumber,
		Address:      c.Address,
		Balance:      c.Balance,
	}
}

// setVersion arms the optimistic lock. Without a version the edit
// applies to whatever is stored.
func setVersion(b *entity.BaseEntity, version int) {
	if version > 0 {
		b.Version = version
	}
}
