package inventory

import (
	"context"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// ApplyFromRequest adapta los bodies HTTP (increase/decrease/adjust) al caso de uso Apply.
// El handler ya validó la presencia de los campos; aquí sólo se traducen.
func (uc *LedgerUseCase) ApplyFromRequest(ctx context.Context, productID int64, changeType entity.ChangeType, in dto.StockChangeRequest) (*LedgerResult, error) {
	mv := Movement{ProductID: productID, Type: changeType}
	if in.Quantity != nil {
		mv.Quantity = *in.Quantity
	}
	if in.Reason != nil {
		mv.Reason = *in.Reason
	}
	return uc.Apply(ctx, mv)
}

// AdjustFromRequest adapta el body de adjust.
func (uc *LedgerUseCase) AdjustFromRequest(ctx context.Context, productID int64, in dto.StockAdjustRequest) (*LedgerResult, error) {
	mv := Movement{ProductID: productID, Type: entity.ChangeTypeAdjustment}
	if in.NewQuantity != nil {
		mv.Quantity = *in.NewQuantity
	}
	if in.Reason != nil {
		mv.Reason = *in.Reason
	}
	return uc.Apply(ctx, mv)
}
