package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"supply_chain/internal/auth"
	"supply_chain/internal/forms"
	"supply_chain/internal/models"
	"supply_chain/internal/repository"
)

type OrderController struct {
	orders repository.Repository[models.Orders]
	feed   *OrderHub
}

func NewOrderController(orders repository.Repository[models.Orders], feed *OrderHub) *OrderController {
	return &OrderController{orders: orders, feed: feed}
}

// Index lists orders, optionally only those with ?status=.
func (oc *OrderController) Index(c *gin.Context) {
	var (
		orders []models.Orders
		err    error
	)
	if status := c.Query("status"); status != "" {
		orders, err = oc.orders.FindBy(c.Request.Context(), repository.Criteria{"order_status": status})
	} else {
		orders, err = oc.orders.FindAll(c.Request.Context())
	}
	if err != nil {
		serverError(c, err, "list orders")
		return
	}
	render(c, http.StatusOK, "order/index", gin.H{"orders": orders})
}

func (oc *OrderController) Show(c *gin.Context) {
	render(c, http.StatusOK, "order/show", gin.H{"order": loaded[models.Orders](c)})
}

// UpdateStatus moves an order to a new status and announces it on the feed.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	o := loaded[models.Orders](c)
	f := &forms.OrderStatusForm{}
	ok, errs := forms.Bind(c, f)
	if ok && !models.ValidOrderStatus(f.OrderStatus) {
		errs.Add("order_status", "Unknown order status.")
	}
	if errs != nil {
		render(c, http.StatusUnprocessableEntity, "order/show", gin.H{"order": o, "errors": errs})
		return
	}

	previous := o.OrderStatus
	o.OrderStatus = f.OrderStatus
	if err := oc.orders.Flush(c.Request.Context(), o); err != nil {
		serverError(c, err, "flush order status")
		return
	}

	fields := logrus.Fields{"order_id": o.ID, "from": previous, "to": o.OrderStatus}
	if s, ok := auth.SessionFrom(c.Request.Context()); ok {
		fields["by"] = s.Username
	}
	logrus.WithFields(fields).Info("order status changed")

	if oc.feed != nil && previous != o.OrderStatus {
		oc.feed.Publish(OrderEvent{
			OrderID:   o.ID,
			Status:    o.OrderStatus,
			Previous:  previous,
			StoreID:   o.StoreID,
			ChangedAt: time.Now().UTC(),
		})
	}
	render(c, http.StatusOK, "order/show", gin.H{"order": o})
}
