package http

import (
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/inventory"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/ledger"
)

func toSiteResponse(s *entity.Site) dto.SiteResponse {
	return dto.SiteResponse{
		Number:       s.Number,
		Name:         s.Name,
		County:       s.County,
		Address1:     s.Address1,
		Address2:     s.Address2,
		Address3:     s.Address3,
		ContactName:  s.ContactName,
		ContactPhone: s.ContactPhone,
		Notes:        s.Notes,
		Modifier:     s.Modifier,
		Modified:     s.Modified,
	}
}

func toCategoryResponse(c *entity.ProductCategory) dto.CategoryResponse {
	return dto.CategoryResponse{Category: c.Category, Modifier: c.Modifier, Modified: c.Modified}
}

func toProductResponse(p *entity.ProductInformation) dto.ProductResponse {
	var expiration *string
	if p.ExpirationDate != nil {
		s := p.ExpirationDate.Format("2006-01-02")
		expiration = &s
	}
	return dto.ProductResponse{
		Code:                p.Code,
		CodeIsGenerated:     p.CodeIsGenerated(),
		Name:                p.Name,
		Category:            p.Category,
		UnitOfMeasure:       p.UnitOfMeasure,
		QuantityOfMeasure:   p.QuantityOfMeasure.String(),
		Expendable:          p.Expendable,
		CartonsPerPallet:    p.CartonsPerPallet,
		DoubleStackPallets:  p.DoubleStackPallets,
		WarehouseLocation:   p.WarehouseLocation,
		CanExpire:           p.CanExpire,
		ExpirationDate:      expiration,
		ExpirationNotes:     p.ExpirationNotes,
		CostPerItem:         p.CostPerItem.String(),
		Picture:             p.Picture,
		OriginalPictureName: p.OriginalPictureName,
		Modifier:            p.Modifier,
		Modified:            p.Modified,
	}
}

func toRecordResponse(r *entity.InventoryRecord) dto.InventoryRecordResponse {
	return dto.InventoryRecordResponse{
		ID:          r.ID,
		SiteNumber:  r.SiteNumber,
		ProductCode: r.ProductCode,
		Quantity:    r.Quantity,
		Deleted:     r.Deleted,
		Modifier:    r.Modifier,
		Modified:    r.Modified,
	}
}

func toItemResponse(item *inventory.Item) dto.InventoryItemResponse {
	out := dto.InventoryItemResponse{Record: toRecordResponse(item.Record)}
	if item.Product != nil {
		out.ProductName = item.Product.Name
		out.Category = item.Product.Category
		out.UnitOfMeasure = item.Product.UnitOfMeasure
		out.QuantityOfMeasure = item.Product.QuantityOfMeasure.String()
	}
	return out
}

func toStatusResponse(st *ledger.ProductStatus) dto.ProductStatusResponse {
	out := dto.ProductStatusResponse{
		Code:             st.Code,
		Sites:            make([]dto.SiteQuantityResponse, 0, len(st.Sites)),
		TotalQuantity:    st.TotalQuantity,
		ExtendedQuantity: st.ExtendedQuantity.String(),
	}
	if st.Product != nil {
		out.CodeIsGenerated = st.Product.CodeIsGenerated()
		out.Name = st.Product.Name
		out.Category = st.Product.Category
	}
	for _, sq := range st.Sites {
		out.Sites = append(out.Sites, dto.SiteQuantityResponse{
			SiteNumber:       sq.SiteNumber,
			SiteName:         sq.SiteName,
			Quantity:         sq.Quantity,
			ExtendedQuantity: sq.ExtendedQuantity.String(),
		})
	}
	return out
}
