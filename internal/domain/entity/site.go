package entity

import "time"

// Site representa un sitio de almacenamiento de suministros (bodega, centro de
// acopio) identificado por su número de negocio, estable una vez asignado.
type Site struct {
	Number       int
	Name         string
	County       string
	Address1     string
	Address2     string
	Address3     string
	ContactName  string
	ContactPhone string
	Notes        string
	Modifier     string
	Modified     time.Time
}
