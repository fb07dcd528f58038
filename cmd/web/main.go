// cmd/web/main.go
package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"github.com/LuisEduardoPedra/motorFiscal/internal/api/handlers"
	"github.com/LuisEduardoPedra/motorFiscal/internal/api/middleware"
	"github.com/LuisEduardoPedra/motorFiscal/internal/api/responses"
	"github.com/LuisEduardoPedra/motorFiscal/internal/core/auth"
	"github.com/LuisEduardoPedra/motorFiscal/internal/core/chave"
	"github.com/LuisEduardoPedra/motorFiscal/internal/core/fiscal"
	"github.com/LuisEduardoPedra/motorFiscal/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// initFirestoreClient inicializa o cliente Firestore via app Firebase.
func initFirestoreClient(ctx context.Context) *firestore.Client {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		projectID = "motor-fiscal-db"
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		log.Fatalf("Erro ao inicializar app Firebase para o projeto '%s': %v\n", projectID, err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		log.Fatalf("Erro ao inicializar cliente Firestore para o projeto '%s': %v\n", projectID, err)
	}
	log.Printf("Conectado com sucesso ao Firestore, projeto: %s", projectID)
	return client
}

func main() {
	responses.InitLogger()
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx := context.Background()
	firestoreClient := initFirestoreClient(ctx)
	defer firestoreClient.Close()

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))

	auditoria := repository.NewAuditoriaFirestore(firestoreClient)
	notasStore := repository.NewNotasFirestore(firestoreClient)

	fiscalService := fiscal.NewService(auditoria, logger)
	chaveService := chave.NewService(notasStore)
	authService := auth.NewService(firestoreClient, jwtSecret)

	fiscalHandler := handlers.NewFiscalHandler(fiscalService, chaveService)
	catalogoHandler := handlers.NewCatalogoHandler(fiscalService)
	authHandler := handlers.NewAuthHandler(authService)

	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/login", authHandler.Login)
		protected := apiV1.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		protected.Use(middleware.PermissionMiddleware("fiscal"))
		{
			protected.POST("/fiscal/recalcular-item", fiscalHandler.HandleRecalcularItem)
			protected.POST("/fiscal/recalcular", fiscalHandler.HandleRecalcularNota)
			protected.POST("/fiscal/validar", fiscalHandler.HandleValidarNota)
			protected.POST("/fiscal/classificar", fiscalHandler.HandleClassificarNota)
			protected.POST("/fiscal/dividir", fiscalHandler.HandleDividirNota)
			protected.POST("/fiscal/projecao", fiscalHandler.HandleProjetarNota)
			protected.POST("/fiscal/chave", fiscalHandler.HandleGerarChave)
			protected.POST("/catalogo/aliquotas-iss", catalogoHandler.HandleCargaAliquotasISS)
		}
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Servidor iniciado e escutando na porta %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Falha ao iniciar o servidor: ", err)
	}
}
