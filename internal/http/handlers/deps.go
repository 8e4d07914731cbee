package handlers

import "rjcreations/internal/services"

type Deps struct {
	CatalogHandler *CatalogHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	AuthHandler    *AuthHandler
	AdminHandler   *AdminHandler
	Auth           *services.AuthService
}

func NewDeps(catalog *services.CatalogService, cart *services.CartService, auth *services.AuthService) *Deps {
	return &Deps{
		CatalogHandler: &CatalogHandler{Catalog: catalog},
		ProductHandler: &ProductHandler{Catalog: catalog},
		CartHandler:    &CartHandler{Cart: cart},
		AuthHandler:    &AuthHandler{Auth: auth},
		AdminHandler:   &AdminHandler{Catalog: catalog},
		Auth:           auth,
	}
}
