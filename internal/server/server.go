package server

// Server combines the handlers of the API and the dashboard page.
type Server struct {
	ItemsServer
	RefreshServer
	CalculatorServer
	DashboardServer
}

func NewServer(
	itemsServer ItemsServer,
	refreshServer RefreshServer,
	calculatorServer CalculatorServer,
	dashboardServer DashboardServer,
) Server {
	return Server{
		ItemsServer:      itemsServer,
		RefreshServer:    refreshServer,
		CalculatorServer: calculatorServer,
		DashboardServer:  dashboardServer,
	}
}
