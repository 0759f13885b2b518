package deps

import (
	"context"
	"happystack/internal/config"
	dl "happystack/internal/core/domain/logging"
	"happystack/internal/core/domain/notifier"
	drl "happystack/internal/core/domain/rate_limiter"
	"happystack/internal/core/domain/user"
	dbuser "happystack/internal/db/user"
	"happystack/internal/implementations/credentials"
	"happystack/internal/implementations/email"
	"happystack/internal/implementations/logging"
	ratelimiter "happystack/internal/implementations/rate_limiter"
	resetnotifications "happystack/internal/implementations/reset_notifications"
	tokenissuer "happystack/internal/implementations/token_issuer"
	"happystack/internal/rabbitmq"
	mailpublisher "happystack/internal/rabbitmq/publishers/mail"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	awsCredentials "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB    *pgxpool.Pool
	Redis *redis.Client
	// Rabbitmq is nil unless RABBITMQ_URL is set.
	Rabbitmq *rabbitmq.Connection

	Now func() time.Time

	UserRepository user.UserRepository
	RateLimiter    drl.RateLimiter
	Credentials    *credentials.Store
	TokenIssuer    user.TokenIssuer

	// SES delivers mail directly. Notifier is what request handling uses,
	// either SES itself or the queue in front of the mailer process.
	SES                      *email.SES
	Notifier                 notifier.Notifier
	PasswordResetTokenSender user.PasswordResetTokenSender
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()

	deps.Now = func() time.Time { return time.Now().UTC() }

	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
	deps.Credentials = credentials.New(
		deps.Config.BcryptHasherCost,
		deps.Config.PasswordResetValidDuration,
		deps.Now,
	)
	deps.TokenIssuer = tokenissuer.NewJWT(deps.Config.Secret, deps.Config.AuthTokenValidDays, deps.Now)

	deps.SES = email.NewSES(deps.Logger, deps.AwsConfig, deps.Config.AwsEmailSender)
	closeNotifier := deps.initNotifier()
	deps.PasswordResetTokenSender = resetnotifications.New(deps.Notifier, deps.Config.PasswordResetBaseURL)

	return deps, func() {
		closeFuncs := []func(){
			closeNotifier,
			closeRabbitmqConn,
			closeRedisClient,
			closePgxPool,
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
		closeLogger()
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
			awsCredentials.NewStaticCredentialsProvider(
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
	logger := logging.NewZapLogger(deps.Config.IsTestMode)
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
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	if deps.Config.RabbitmqURL == "" {
		deps.Logger.Info(context.Background(), "RabbitMQ is disabled.")
		return func() {}
	}

	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

// OpenMailChannel opens a RabbitMQ channel with the mail exchange and queue
// declared on it.
func (deps *Deps) OpenMailChannel() *rabbitmq.Channel {
	if deps.Rabbitmq == nil {
		panic("RabbitMQ connection is required for the mail queue")
	}

	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	err = rabbitmqChannel.DeclareMailTopology(
		deps.Config.RabbitmqMailExchange,
		deps.Config.RabbitmqMailQueue,
		deps.Config.RabbitmqMailRoutingKey,
	)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not declare RabbitMQ mail topology.", dl.Entry("err", err))
		panic(err)
	}
	return rabbitmqChannel
}

func (deps *Deps) initNotifier() func() {
	if deps.Config.MailTransport != config.MailTransportRabbitMQ {
		deps.Notifier = deps.SES
		deps.Logger.Info(context.Background(), "Mail is sent through SES.")
		return func() {}
	}

	rabbitmqChannel := deps.OpenMailChannel()
	deps.Notifier = mailpublisher.NewRabbitMQ(
		deps.Logger,
		rabbitmqChannel,
		deps.Config.RabbitmqMailExchange,
		deps.Config.RabbitmqMailRoutingKey,
	)
	deps.Logger.Info(
		context.Background(),
		"Mail is queued through RabbitMQ.",
		dl.Entry("exchange", deps.Config.RabbitmqMailExchange),
	)

	return func() {
		deps.Logger.Info(context.Background(), "Shutting down mail publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "Mail publisher shut down.")
	}
}
