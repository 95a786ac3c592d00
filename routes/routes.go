package routes

import (
	"net/http"

	"github.com/dipanshukale/CraftCrazy/events"
	"github.com/dipanshukale/CraftCrazy/handlers"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Orders   *handlers.OrderHandler
	Invoices *handlers.InvoiceHandler
	Contacts *handlers.ContactHandler
	Products *handlers.ProductHandler
	Demands  *handlers.DemandHandler
	Reviews  *handlers.ReviewHandler
	Hub      *events.Hub
}

func SetupRoutes(e *echo.Echo, h Handlers) {
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "API is running...")
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/socket", handlers.ServeSocket(h.Hub))

	api := e.Group("/api")

	// Order routes
	order := api.Group("/order")
	order.POST("/createOrder", h.Orders.CreateOrder)
	order.POST("/orderComplete", h.Orders.CompleteOrder)
	order.POST("/orderFailed", h.Orders.FailOrder)
	order.POST("/retryPayment", h.Orders.RetryPayment)

	// Admin order routes
	order.GET("/getOrder", h.Orders.GetOrders)
	order.GET("/products", h.Orders.GetOrderedProducts)
	order.GET("/customers", h.Orders.GetCustomers)
	order.GET("/status/:status", h.Orders.GetOrdersByStatus)
	order.GET("/transaction/:transactionStatus", h.Orders.GetOrdersByTransaction)
	order.GET("/active", h.Orders.GetActiveOrders)
	order.PATCH("/order/:orderId", h.Orders.UpdateOrderStatus)
	order.DELETE("/:orderId", h.Orders.DeleteOrder)

	invoice := api.Group("/invoice")
	invoice.GET("", h.Invoices.GetInvoices)
	invoice.GET("/", h.Invoices.GetInvoices)
	invoice.GET("/:id", h.Invoices.GetInvoice)

	contact := api.Group("/contact")
	contact.POST("/add", h.Contacts.AddContact)
	contact.GET("/all", h.Contacts.GetContacts)
	contact.PATCH("/update-status/:id", h.Contacts.UpdateContactStatus)

	demand := api.Group("/demand")
	demand.POST("/create", h.Demands.CreateDemand)
	demand.GET("/demandOrder", h.Demands.GetDemands)

	reviews := api.Group("/reviews")
	reviews.GET("", h.Reviews.GetReviews)
	reviews.GET("/", h.Reviews.GetReviews)
	reviews.POST("/add", h.Reviews.AddReview)
	reviews.GET("/product/:id", h.Reviews.GetProductReviews)
	reviews.DELETE("/:id", h.Reviews.DeleteReview)

	products := api.Group("/products")
	products.POST("/add", h.Products.CreateProduct)
	products.GET("/newarrivals", h.Products.GetProducts)
	products.GET("/category", h.Products.GetProductsByCategory)
	products.GET("", h.Products.SearchProducts)
	products.GET("/", h.Products.SearchProducts)
	products.GET("/:id", h.Products.GetProduct)
	products.PATCH("/:id", h.Products.UpdateProduct)
	products.DELETE("/:id", h.Products.DeleteProduct)
}
