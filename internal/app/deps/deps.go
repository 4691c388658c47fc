package deps

import (
	"context"
	"sync"
	"time"
	"vitalance/internal/config"
	dl "vitalance/internal/core/domain/logging"
	drl "vitalance/internal/core/domain/rate_limiter"
	"vitalance/internal/core/domain/streak"
	duow "vitalance/internal/core/domain/unit_of_work"
	"vitalance/internal/core/domain/user"
	dbstreak "vitalance/internal/db/streak"
	uow "vitalance/internal/db/unit_of_work"
	dbuser "vitalance/internal/db/user"
	"vitalance/internal/implementations/email"
	"vitalance/internal/implementations/logging"
	passwordhasher "vitalance/internal/implementations/password_hasher"
	ratelimiter "vitalance/internal/implementations/rate_limiter"
	resettokengenerator "vitalance/internal/implementations/reset_token_generator"
	sessiontoken "vitalance/internal/implementations/session_token"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB    *pgxpool.Pool
	Redis *redis.Client

	Now func() time.Time

	UnitOfWork           duow.UnitOfWork
	UserRepository       user.UserRepository
	ResetTokenRepository user.ResetTokenRepository
	StreakRepository     streak.Repository

	RateLimiter drl.RateLimiter

	PasswordHasher      user.PasswordHasher
	SessionTokenSigner  user.SessionTokenSigner
	ResetTokenGenerator user.ResetTokenGenerator
	ResetLinkSender     user.ResetLinkSender

	StreakLocation *time.Location
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()

	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB)
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.ResetTokenRepository = dbuser.NewPgxResetTokenRepository(deps.DB)
	deps.StreakRepository = dbstreak.NewPgxRepository(deps.DB)

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.SessionTokenSigner = sessiontoken.NewHS256Signer(deps.Config.Secret, deps.Now)
	deps.ResetTokenGenerator = resettokengenerator.NewGenerator()
	deps.ResetLinkSender = email.NewResetLinkSender(
		deps.AwsConfig,
		deps.Config.AwsEmailSender,
		deps.Config.AwsEmailPasswordResetTemplate,
		deps.Config.PasswordResetBaseUrl,
	)

	deps.initStreakLocation()

	return deps, func() {
		closeFuncs := []func(){
			closeRedisClient,
			closePgxPool,
			closeLogger,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger()
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis connection.")
		if err := redisClient.Close(); err != nil {
			deps.Logger.Error(
				context.Background(),
				"Could not close Redis connection.",
				dl.Entry("err", err),
			)
			return
		}
		deps.Logger.Info(context.Background(), "Redis connection shut down.")
	}
}

func (deps *Deps) initStreakLocation() {
	location, err := time.LoadLocation(deps.Config.StreakTimezone)
	if err != nil {
		panic(err)
	}
	deps.StreakLocation = location
}
