package orders_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/logger"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/orders"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/orders/db"
)

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreateOrder(order db.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockDBLayer) GetOrderByID(id string) (*db.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Order), args.Error(1)
}

func (m *MockDBLayer) ListOrders() ([]db.Order, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Order), args.Error(1)
}

func (m *MockDBLayer) UpdateOrderFields(id string, patch db.OrderPatch) (*db.Order, error) {
	args := m.Called(id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Order), args.Error(1)
}

func (m *MockDBLayer) OrderExists(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderUpdated(order db.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func TestListOrders(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := orders.NewOrderService(mockDB, nil, logger.NewLogger())

	expected := []db.Order{
		{OrderID: "ord-2", CreatedAt: time.Now()},
		{OrderID: "ord-1", CreatedAt: time.Now().Add(-time.Hour)},
	}
	mockDB.On("ListOrders").Return(expected, nil)

	orderList, err := service.ListOrders()
	assert.NoError(t, err)
	assert.Equal(t, expected, orderList)
	mockDB.AssertExpectations(t)
}

func TestUpdateOrderPublishesEvent(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockPublisher)
	service := orders.NewOrderService(mockDB, mockEvents, logger.NewLogger())

	status := "completed"
	patch := db.OrderPatch{Status: &status}
	updated := &db.Order{OrderID: "ord-1", Status: "completed", ProgressPercentage: 100}

	mockDB.On("UpdateOrderFields", "ord-1", patch).Return(updated, nil)
	mockEvents.On("PublishOrderUpdated", *updated).Return(nil)

	order, err := service.UpdateOrder("ord-1", patch)
	assert.NoError(t, err)
	assert.Equal(t, updated, order)
	mockDB.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestUpdateOrderToleratesPublishFailure(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockPublisher)
	service := orders.NewOrderService(mockDB, mockEvents, logger.NewLogger())

	status := "processing"
	patch := db.OrderPatch{Status: &status}
	updated := &db.Order{OrderID: "ord-1", Status: "processing"}

	mockDB.On("UpdateOrderFields", "ord-1", patch).Return(updated, nil)
	mockEvents.On("PublishOrderUpdated", *updated).Return(errors.New("broker down"))

	order, err := service.UpdateOrder("ord-1", patch)
	assert.NoError(t, err)
	assert.Equal(t, updated, order)
}

func TestUpdateOrderNotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := orders.NewOrderService(mockDB, nil, logger.NewLogger())

	status := "completed"
	patch := db.OrderPatch{Status: &status}
	mockDB.On("UpdateOrderFields", "missing", patch).Return(nil, db.ErrNotFound)

	order, err := service.UpdateOrder("missing", patch)
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
	assert.Nil(t, order)
}

func TestExportAccountsCSV(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := orders.NewOrderService(mockDB, nil, logger.NewLogger())

	mockDB.On("GetOrderByID", "ord-1").Return(&db.Order{
		OrderID:      "ord-1",
		AccountNames: `[{"firstName":"A","lastName":"B\"Q","email":"a@b.com"}]`,
	}, nil)

	csvBytes, err := service.ExportAccountsCSV("ord-1")
	assert.NoError(t, err)
	assert.Equal(t, "\"First Name\",\"Last Name\",\"Email\"\r\n\"A\",\"B\"\"Q\",\"a@b.com\"", string(csvBytes))
}

func TestExportAccountsCSVMalformedPayload(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := orders.NewOrderService(mockDB, nil, logger.NewLogger())

	mockDB.On("GetOrderByID", "ord-1").Return(&db.Order{
		OrderID:      "ord-1",
		AccountNames: "{not json",
	}, nil)

	csvBytes, err := service.ExportAccountsCSV("ord-1")
	assert.NoError(t, err)

	lines := strings.Split(string(csvBytes), "\r\n")
	assert.Len(t, lines, 1)
	assert.Equal(t, "\"First Name\",\"Last Name\",\"Email\"", lines[0])
}

func TestExportAccountsCSVNotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := orders.NewOrderService(mockDB, nil, logger.NewLogger())

	mockDB.On("GetOrderByID", "missing").Return(nil, db.ErrNotFound)

	csvBytes, err := service.ExportAccountsCSV("missing")
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
	assert.Nil(t, csvBytes)
}
