package entity

import "time"

// Supplier representa un proveedor de la empresa. El directorio de proveedores
// es un colaborador externo: aquí solo se consume lo mínimo para resolver el
// proveedor de una orden de reposición.
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	Email     string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
