package repository

import "github.com/jcastano/stockcore-api/internal/domain/entity"

// SupplierRepository define el puerto de consulta al directorio de proveedores.
// El directorio en sí es un colaborador externo; el motor de reposición solo
// necesita resolver el proveedor preferido o uno activo de respaldo.
type SupplierRepository interface {
	GetByID(id string) (*entity.Supplier, error)
	// FirstActiveByCompany devuelve un proveedor activo de la empresa, o nil si
	// no hay ninguno.
	FirstActiveByCompany(companyID string) (*entity.Supplier, error)
}
