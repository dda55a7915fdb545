package entity

import "time"

// ProductCategory agrupa productos bajo una etiqueta única.
// La relación producto→categoría es opcional: borrar una categoría no
// borra ni modifica los productos que la referencian.
type ProductCategory struct {
	ID       int    // surrogate; la clave de negocio es Category
	Category string
	Modifier string
	Modified time.Time
}
