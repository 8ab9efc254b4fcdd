package inventory

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

// MaxReasonLength longitud máxima del motivo, en caracteres.
const MaxReasonLength = 500

// LedgerConfig políticas del libro.
type LedgerConfig struct {
	// LogNoopAdjustments registra los ajustes cuya cantidad final es igual a la actual.
	LogNoopAdjustments bool
}

// LedgerResult resultado de una transición. Recorded=false sólo en ajustes sin cambio no registrados.
type LedgerResult struct {
	Entry    dto.InventoryHistoryResponse
	Recorded bool
}

// Movement transición solicitada sobre un producto.
// Quantity es la cantidad a sumar/restar, o la cantidad final en ajustes.
type Movement struct {
	ProductID int64
	Type      entity.ChangeType
	Quantity  int
	Reason    string
}

// LedgerUseCase único componente que modifica products.quantity.
// Cada transición bloquea la fila del producto (SELECT FOR UPDATE), actualiza la cantidad
// e inserta la entrada de historial en la misma transacción.
type LedgerUseCase struct {
	txRunner TxRunner
	cache    ports.ReportCacheInvalidator
	cfg      LedgerConfig
	log      zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, cache ports.ReportCacheInvalidator, cfg LedgerConfig, log zerolog.Logger) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, cache: cache, cfg: cfg, log: log}
}

// Increase suma amount (> 0) a la cantidad del producto.
func (uc *LedgerUseCase) Increase(ctx context.Context, productID int64, amount int, reason string) (*LedgerResult, error) {
	return uc.Apply(ctx, Movement{ProductID: productID, Type: entity.ChangeTypeIncrease, Quantity: amount, Reason: reason})
}

// Decrease resta amount (> 0); falla con InsufficientStockError si el resultado fuera negativo.
func (uc *LedgerUseCase) Decrease(ctx context.Context, productID int64, amount int, reason string) (*LedgerResult, error) {
	return uc.Apply(ctx, Movement{ProductID: productID, Type: entity.ChangeTypeDecrease, Quantity: amount, Reason: reason})
}

// Adjust fija la cantidad en newQuantity (>= 0).
func (uc *LedgerUseCase) Adjust(ctx context.Context, productID int64, newQuantity int, reason string) (*LedgerResult, error) {
	return uc.Apply(ctx, Movement{ProductID: productID, Type: entity.ChangeTypeAdjustment, Quantity: newQuantity, Reason: reason})
}

// Apply valida el movimiento y lo ejecuta dentro de TxRunner.Run.
func (uc *LedgerUseCase) Apply(ctx context.Context, mv Movement) (*LedgerResult, error) {
	reason, err := validateMovement(&mv)
	if err != nil {
		return nil, err
	}

	var result *LedgerResult
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		historyRepo repository.InventoryHistoryRepository,
	) error {
		// Bloquea la fila; una segunda transición sobre el mismo producto espera al commit de ésta.
		product, err := productRepo.GetForUpdate(ctx, mv.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NewNotFoundError("producto", mv.ProductID)
		}

		before := product.Quantity
		after, err := nextQuantity(mv, before)
		if err != nil {
			return err
		}

		entry := &entity.InventoryHistory{
			ProductID:      product.ID,
			ChangeType:     mv.Type,
			QuantityChange: after - before,
			QuantityBefore: before,
			QuantityAfter:  after,
			Reason:         reason,
			ProductName:    product.Name,
			ProductCode:    product.ProductCode,
		}

		if mv.Type == entity.ChangeTypeAdjustment && after == before && !uc.cfg.LogNoopAdjustments {
			result = &LedgerResult{Entry: toHistoryResponse(entry), Recorded: false}
			return nil
		}

		if err := productRepo.UpdateQuantity(ctx, product.ID, after); err != nil {
			return err
		}
		if err := historyRepo.Create(ctx, entry); err != nil {
			return err
		}
		result = &LedgerResult{Entry: toHistoryResponse(entry), Recorded: true}
		return nil
	})
	if err != nil {
		uc.logFailure(mv, err)
		return nil, err
	}

	if result.Recorded {
		uc.log.Debug().
			Int64("product_id", mv.ProductID).
			Str("change_type", string(mv.Type)).
			Int("quantity_before", result.Entry.QuantityBefore).
			Int("quantity_after", result.Entry.QuantityAfter).
			Msg("movimiento registrado")
		if cerr := uc.cache.Invalidate(ctx); cerr != nil {
			uc.log.Warn().Err(cerr).Msg("no se pudo invalidar la caché de reportes")
		}
	}
	return result, nil
}

// nextQuantity calcula la cantidad resultante según el tipo de movimiento.
func nextQuantity(mv Movement, before int) (int, error) {
	var after int
	switch mv.Type {
	case entity.ChangeTypeIncrease:
		after = before + mv.Quantity
	case entity.ChangeTypeDecrease:
		after = before - mv.Quantity
		if after < 0 {
			return 0, &domain.InsufficientStockError{Available: before, Requested: mv.Quantity}
		}
	case entity.ChangeTypeAdjustment:
		after = mv.Quantity
	default:
		return 0, domain.NewValidationError("datos inválidos").Add("change_type", "tipo de movimiento desconocido")
	}
	if after > entity.MaxQuantity {
		return 0, domain.NewValidationError("datos inválidos").Add("quantity", "la cantidad resultante excede el máximo permitido")
	}
	return after, nil
}

// validateMovement revisa la entrada antes de abrir la transacción y devuelve el motivo normalizado.
func validateMovement(mv *Movement) (*string, error) {
	ve := domain.NewValidationError("datos inválidos")
	if mv.ProductID <= 0 {
		ve.Add("product_id", "debe ser un entero positivo")
	}
	field := "quantity"
	switch mv.Type {
	case entity.ChangeTypeIncrease, entity.ChangeTypeDecrease:
		if mv.Quantity <= 0 {
			ve.Add(field, "debe ser mayor que 0")
		}
	case entity.ChangeTypeAdjustment:
		field = "new_quantity"
		if mv.Quantity < 0 {
			ve.Add(field, "no puede ser negativa")
		}
	default:
		ve.Add("change_type", "tipo de movimiento desconocido")
	}
	if mv.Quantity > entity.MaxQuantity {
		ve.Add(field, "excede el máximo permitido")
	}

	reason := strings.TrimSpace(mv.Reason)
	if utf8.RuneCountInString(reason) > MaxReasonLength {
		ve.Add("reason", "máximo 500 caracteres")
	}
	if ve.HasErrors() {
		return nil, ve
	}
	if reason == "" {
		return nil, nil
	}
	return &reason, nil
}

func (uc *LedgerUseCase) logFailure(mv Movement, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		uc.log.Info().Err(err).Int64("product_id", mv.ProductID).Int("requested", mv.Quantity).Msg("disminución rechazada")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
		uc.log.Debug().Err(err).Int64("product_id", mv.ProductID).Msg("movimiento rechazado")
	default:
		uc.log.Error().Err(err).Int64("product_id", mv.ProductID).Str("change_type", string(mv.Type)).Msg("error registrando movimiento")
	}
}

func toHistoryResponse(h *entity.InventoryHistory) dto.InventoryHistoryResponse {
	return dto.InventoryHistoryResponse{
		ID:             h.ID,
		ProductID:      h.ProductID,
		ProductName:    h.ProductName,
		ProductCode:    h.ProductCode,
		ChangeType:     string(h.ChangeType),
		QuantityChange: h.QuantityChange,
		QuantityBefore: h.QuantityBefore,
		QuantityAfter:  h.QuantityAfter,
		Reason:         h.Reason,
		CreatedAt:      h.CreatedAt,
	}
}
