package book

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/pkg/logger"
	"github.com/xiebiao/bookinventory/pkg/metrics"
	"github.com/xiebiao/bookinventory/pkg/tracing"
)

// DiscountedPriceUseCase 折扣聚合用例
// 流程:
// 1. 解析并校验genre和discount(genre优先)
// 2. 查缓存,命中直接返回
// 3. 未命中由领域服务计算,成功结果写回缓存
// 缓存只是加速,任何缓存错误都降级为直接计算;有写操作进行时不碰缓存
// 缓存与写操作共用ChangeNotifier里的同一个DiscountCache
type DiscountedPriceUseCase struct {
	bookService book.Service
	notifier    *ChangeNotifier
	log         zerolog.Logger
}

// NewDiscountedPriceUseCase 创建折扣聚合用例
func NewDiscountedPriceUseCase(bookService book.Service, notifier *ChangeNotifier, log zerolog.Logger) *DiscountedPriceUseCase {
	metrics.InitMetrics()
	return &DiscountedPriceUseCase{
		bookService: bookService,
		notifier:    notifier,
		log:         log,
	}
}

// DiscountedPriceRequest 原始查询参数(未解析)
type DiscountedPriceRequest struct {
	Genre    string
	Discount string
}

// Execute 执行折扣聚合
func (uc *DiscountedPriceUseCase) Execute(ctx context.Context, req DiscountedPriceRequest) (*book.DiscountResult, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.DiscountedPrice")
	defer span.End()

	// 1. 解析参数
	query, err := book.ParseDiscountQuery(req.Genre, req.Discount)
	if err != nil {
		metrics.IncCounterVec(metrics.DiscountQueriesTotal, map[string]string{"result": metrics.ResultInvalid})
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("discount.genre", query.Genre),
		attribute.Float64("discount.percent", query.Percent),
	)

	log := logger.FromContext(ctx, uc.log)

	// 2. 查缓存
	// Key必须在检查writing之前生成(包含当前代数)
	cache := uc.notifier.cache
	key := cache.Key(query)
	useCache := !uc.notifier.writing()
	if useCache {
		cached, hit, err := cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.IncCounterVec(metrics.DiscountCacheLookupsTotal, map[string]string{"result": metrics.ResultError})
			log.Warn().Err(err).Msg("读取折扣缓存失败,直接计算")
		case hit:
			metrics.IncCounterVec(metrics.DiscountCacheLookupsTotal, map[string]string{"result": metrics.ResultHit})
			metrics.IncCounterVec(metrics.DiscountQueriesTotal, map[string]string{"result": metrics.ResultOK})
			span.SetAttributes(attribute.Bool("cache.hit", true))
			// Key里genre忽略大小写,响应里回显本次请求的genre
			return &book.DiscountResult{
				Genre:                query.Genre,
				DiscountPercentage:   query.Percent,
				TotalDiscountedPrice: cached.TotalDiscountedPrice,
			}, nil
		default:
			metrics.IncCounterVec(metrics.DiscountCacheLookupsTotal, map[string]string{"result": metrics.ResultMiss})
		}
	}

	// 3. 计算
	result, err := uc.bookService.DiscountedPrice(ctx, query)
	if err != nil {
		label := metrics.ResultInvalid
		switch {
		case errors.Is(err, book.ErrNoBooksForGenre):
			label = metrics.ResultNoBooks
		case errors.Is(err, book.ErrAggregateOverflow):
			label = metrics.ResultError
		}
		metrics.IncCounterVec(metrics.DiscountQueriesTotal, map[string]string{"result": label})
		tracing.RecordError(span, err)
		return nil, err
	}
	metrics.IncCounterVec(metrics.DiscountQueriesTotal, map[string]string{"result": metrics.ResultOK})

	// 4. 写回缓存
	if useCache {
		if err := cache.Set(ctx, key, result); err != nil {
			log.Warn().Err(err).Msg("写入折扣缓存失败")
		}
	}

	return result, nil
}
