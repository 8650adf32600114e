package handlers

import (
	"autoparts/internal/domain/catalogs/brand"
	"autoparts/internal/domain/catalogs/client"
	"autoparts/internal/domain/catalogs/country"
	"autoparts/internal/domain/catalogs/warehouse"
	"autoparts/internal/infrastructure/http/v1/dto"
)

// WarehouseHTTPHandler serves the warehouse catalog.
type WarehouseHTTPHandler = CatalogHandler[*warehouse.Warehouse, dto.WarehouseRequest]

// NewWarehouseHandler creates the warehouse catalog handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*warehouse.Warehouse, dto.WarehouseRequest]{
		Service:      service.CatalogService,
		EntityName:   "warehouse",
		MapCreateDTO: dto.WarehouseRequest.ToEntity,
		MapUpdateDTO: dto.WarehouseRequest.ApplyTo,
		MapToDTO:     anyDTO(dto.FromWarehouse),
	})
}

// CountryHTTPHandler serves the country catalog.
type CountryHTTPHandler = CatalogHandler[*country.Country, dto.CountryRequest]

// NewCountryHandler creates the country catalog handler.
func NewCountryHandler(base *BaseHandler, service *country.Service) *CountryHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*country.Country, dto.CountryRequest]{
		Service:      service.CatalogService,
		EntityName:   "country",
		MapCreateDTO: dto.CountryRequest.ToEntity,
		MapUpdateDTO: dto.CountryRequest.ApplyTo,
		MapToDTO:     anyDTO(dto.FromCountry),
	})
}

// BrandHTTPHandler serves the brand catalog.
type BrandHTTPHandler = CatalogHandler[*brand.Brand, dto.BrandRequest]

// NewBrandHandler creates the brand catalog handler.
func NewBrandHandler(base *BaseHandler, service *brand.Service) *BrandHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*brand.Brand, dto.BrandRequest]{
		Service:      service.CatalogService,
		EntityName:   "brand",
		MapCreateDTO: dto.BrandRequest.ToEntity,
		MapUpdateDTO: dto.BrandRequest.ApplyTo,
		MapToDTO:     anyDTO(dto.FromBrand),
	})
}

// ClientHTTPHandler serves the client catalog.
type ClientHTTPHandler = CatalogHandler[*client.Client, dto.ClientRequest]

// NewClientHandler creates the client catalog handler.
func NewClientHandler(base *BaseHandler, service *client.Service) *ClientHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*client.Client, dto.ClientRequest]{
		Service:      service.CatalogService,
		EntityName:   "client",
		MapCreateDTO: dto.ClientRequest.ToEntity,
		MapUpdateDTO: dto.ClientRequest.ApplyTo,
		MapToDTO:     anyDTO(dto.FromClient),
	})
}
