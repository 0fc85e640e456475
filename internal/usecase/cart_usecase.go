package usecase

import (
	"context"
	"net/http"

	repo "app/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// Repositoryは Cart と CartItem を分離して受け取ります。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartItemResponse struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	ItemTotal float64 `json:"item_total"`
}

type CartResponse struct {
	CartID   int64              `json:"cart_id"`
	Items    []CartItemResponse `json:"items"`
	Subtotal float64            `json:"subtotal"`
}

type MergeItemInput struct {
	ProductID int64
	Quantity  int64
}

// MergeItems はカートへのマージ（同一商品は数量加算）。
// 数量が正でない・商品が引けない明細はスキップする。空のitemsだけがエラー。
func (u *CartUsecase) MergeItems(ctx context.Context, userID int64, items []MergeItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(items) == 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "items required")
	}

	// ACTIVEカート取得（無ければ作成）
	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	for _, in := range items {
		if in.ProductID <= 0 || in.Quantity < 1 {
			continue
		}

		// 商品チェック（公開のみ）
		p, err := u.productRepo.FindByID(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			continue
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsActive {
			continue
		}

		// Upsert（同一商品は加算）
		if err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// GetActiveCart はACTIVEカートと明細・小計を返す。
// カートが無ければ404、空なら400。
func (u *CartUsecase) GetActiveCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out, err := u.buildCartResponse(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, err
	}
	if len(out.Items) == 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	return out, nil
}

// cartIDの明細をまとめてCartResponseを作る。
// 小計は読み取り時点のカタログ価格で計算する。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	var subtotal float64 = 0

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			continue
		}
		if !p.IsActive {
			continue
		}

		itemTotal := p.Price * float64(it.Quantity)
		respItems = append(respItems, CartItemResponse{
			ProductID: it.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  it.Quantity,
			ItemTotal: itemTotal,
		})

		subtotal += itemTotal
	}

	return CartResponse{CartID: cartID, Items: respItems, Subtotal: subtotal}, nil
}
