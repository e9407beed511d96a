package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/status", s.handleStatus)

		// DEX pool routes
		pools := api.Group("/pools")
		{
			pools.GET("", s.handleGetPools)
			pools.GET("/:pool_id", s.handleGetPool)
			pools.GET("/pair/:asset_a/:asset_b", s.handleGetPoolByPair)
		}

		// Swap quotes
		api.GET("/swap/quote", s.handleQuoteSwap)

		// Asset ledger routes
		assets := api.Group("/assets")
		{
			assets.GET("/:asset_id/balances/:account", s.handleGetBalance)
		}

		// Block submission (protected)
		if s.auth != nil {
			blocks := api.Group("/blocks")
			blocks.Use(s.AuthMiddleware())
			{
				blocks.POST("", s.handleSubmitBlock)
			}
		}
	}
}
