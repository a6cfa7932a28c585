package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/internal/model"
	"kolibra-order-service/src/internal/model/converter"
	httpError "kolibra-order-service/src/pkg/http-error"
	"kolibra-order-service/src/pkg/log"
	"kolibra-order-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
)

const (
	catalogCacheKey = "SERVICES:ACTIVE"
	catalogCacheTTL = 10 * time.Minute
)

// CatalogUseCase serves the public services listing and the admin upkeep that
// feeds the order-item price snapshot.
type CatalogUseCase struct {
	Log      log.Log
	Validate *validator.Validate
	Services ServiceStore
	Redis    redis.UniversalClient
}

func NewCatalogUseCase(logger log.Log, validate *validator.Validate, services ServiceStore, redisClient redis.UniversalClient) *CatalogUseCase {
	return &CatalogUseCase{
		Log:      logger,
		Validate: validate,
		Services: services,
		Redis:    redisClient,
	}
}

func (c *CatalogUseCase) ListServices(ctx context.Context) utils.Result {
	var result utils.Result

	if c.Redis != nil {
		cached, err := c.Redis.Get(ctx, catalogCacheKey).Result()
		if err == nil && cached != "" {
			var responses []model.ServiceResponse
			if err := json.Unmarshal([]byte(cached), &responses); err == nil {
				result.Data = responses
				return result
			}
		}
	}

	services, err := c.Services.FindActive(ctx)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("catalog-usecase", err.Error(), "ListServices", "")
		return result
	}

	responses := make([]model.ServiceResponse, 0, len(services))
	for i := range services {
		responses = append(responses, *converter.ServiceToResponse(&services[i]))
	}

	if c.Redis != nil {
		if encoded, err := json.Marshal(responses); err == nil {
			if err := c.Redis.Set(ctx, catalogCacheKey, encoded, catalogCacheTTL).Err(); err != nil {
				c.Log.Warn("catalog-usecase", fmt.Sprintf("cache write failed: %v", err), "ListServices", "")
			}
		}
	}

	result.Data = responses
	return result
}

func (c *CatalogUseCase) UpsertService(ctx context.Context, request *model.UpsertServiceRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	svc := &entity.ServiceOffering{
		ID:          request.ID,
		Name:        request.Name,
		Description: request.Description,
		BasePrice:   request.BasePrice,
		Active:      request.Active,
	}

	id, err := c.Services.Upsert(ctx, svc)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("catalog-usecase", err.Error(), "UpsertService", utils.ConvertString(request))
		return result
	}
	svc.ID = id

	if c.Redis != nil {
		if err := c.Redis.Del(ctx, catalogCacheKey).Err(); err != nil {
			c.Log.Warn("catalog-usecase", fmt.Sprintf("cache invalidation failed: %v", err), "UpsertService", "")
		}
	}

	result.Data = converter.ServiceToResponse(svc)
	return result
}
