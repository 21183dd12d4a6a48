package dto

// ScanErrorDTO error por producto durante el escaneo de reposición.
// Los errores por producto no abortan el escaneo: se reportan junto al
// resultado parcial.
type ScanErrorDTO struct {
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
}

// ScanResultResponse resultado de POST /api/reorders/scan.
type ScanResultResponse struct {
	Scanned       int                     `json:"scanned"`        // productos evaluados bajo umbral
	Skipped       int                     `json:"skipped"`        // omitidos por orden auto-generada abierta
	OrdersCreated []PurchaseOrderResponse `json:"orders_created"`
	Errors        []ScanErrorDTO          `json:"errors"`
}
