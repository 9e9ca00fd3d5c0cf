package requestresponse

import "rolodrawer/internal/model"

// CreateLocationRequest : новое помещение
type CreateLocationRequest struct {
	Name string `json:"name" example:"Архив, 2 этаж"`
}

// CreateCabinetRequest : новый шкаф в помещении
type CreateCabinetRequest struct {
	LocationID int64  `json:"location_id" example:"1"`
	Label      string `json:"label" example:"Шкаф А"`
}

// CreateDrawerRequest : новый ящик в шкафу
type CreateDrawerRequest struct {
	CabinetID int64  `json:"cabinet_id" example:"2"`
	Label     string `json:"label" example:"Ящик 3"`
}

// LocationResponse : помещение
type LocationResponse struct {
	Response model.Location `json:"response"`
}

// CabinetResponse : шкаф
type CabinetResponse struct {
	Response model.Cabinet `json:"response"`
}

// DrawerResponse : ящик
type DrawerResponse struct {
	Response model.Drawer `json:"response"`
}

// DrawerPathResponse : ящик с полным путём размещения
type DrawerPathResponse struct {
	Response model.DrawerPath `json:"response"`
}

// DrawerListResponse : все ящики с путями и числом дел
type DrawerListResponse struct {
	Response []model.DrawerPath `json:"response"`
}
