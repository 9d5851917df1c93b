package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/redirusmana/bakery-shop-web/pkg/errors"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Get(ctx context.Context, path string, out any) error {
	args := m.Called(ctx, path, out)
	if fn, ok := args.Get(1).(func(any)); ok && fn != nil {
		fn(out)
	}
	return args.Error(0)
}

func TestListProducts_ReturnsListing(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Get", mock.Anything, "/all-products", mock.Anything).
		Return(nil, func(out any) {
			out.(*listResponse).Products = []Product{
				{ID: "p1", Handle: "chocolate-cake", Title: "Chocolate Cake"},
				{ID: "p2", Handle: "croissant", Title: "Croissant"},
			}
		})

	svc := NewService(gw)

	products, err := svc.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "chocolate-cake", products[0].Handle)
}

func TestListProducts_GatewayErrorPassesThrough(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Get", mock.Anything, "/all-products", mock.Anything).
		Return(apperrors.Network(), nil)

	svc := NewService(gw)

	_, err := svc.ListProducts(context.Background())

	require.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestGetProduct_FetchesByHandle(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Get", mock.Anything, "/product/chocolate-cake", mock.Anything).
		Return(nil, func(out any) {
			out.(*productResponse).Product = &Product{ID: "p1", Handle: "chocolate-cake"}
		})

	svc := NewService(gw)

	p, err := svc.GetProduct(context.Background(), "chocolate-cake")

	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}

func TestGetProduct_EmptyHandleRejectedWithoutNetwork(t *testing.T) {
	gw := new(mockGateway)
	svc := NewService(gw)

	_, err := svc.GetProduct(context.Background(), "")

	require.ErrorIs(t, err, apperrors.ErrValidation)
	gw.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetProduct_MissingPayloadIsRemoteError(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Get", mock.Anything, "/product/unknown", mock.Anything).
		Return(nil, nil)

	svc := NewService(gw)

	_, err := svc.GetProduct(context.Background(), "unknown")

	require.ErrorIs(t, err, apperrors.ErrRemote)
}
