package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	coinbridge "coinbridge_back"
	"coinbridge_back/pkg/coinrpc"
	"coinbridge_back/pkg/handler"
	"coinbridge_back/pkg/repository"
	"coinbridge_back/pkg/service"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))
	logrus.Infoln("Запуск платёжного моста")
	if err := godotenv.Load(); err != nil {
		logrus.Infof("Ошибка инициализации переменных окружения .env: %s \n", err)
	}

	if err := InitConfig(); err != nil {
		logrus.Fatalf("Ошибка (viper) при инициализации конфига .yaml: %s \n", err.Error())
	}
	logrus.Infoln("Конфиг YAML инициализирован")

	db, err := repository.NewPostgresDB(repository.Config{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: os.Getenv("DB_PASS_LOCAL"),
		DBName:   viper.GetString("db.dbname"),
		SSLMode:  viper.GetString("db.sslmode"),
	})
	if err != nil {
		logrus.Fatalf("Ошибка при инициализации базы данных: %s \n", err.Error())
	}
	logrus.Info("База данных подключена")

	ledger := repository.NewLedgerPostgres(db)
	if err := ledger.InitSchema(); err != nil {
		logrus.Fatalf("Ошибка при создании схемы transactions: %s \n", err.Error())
	}

	client := coinrpc.NewClient(CoinConfig())
	if err := client.EnsureConnected(); err != nil {
		// Демон может подняться позже: платежи сами переподключатся.
		logrus.Warnf("Демон пока недоступен: %s", err.Error())
	}

	repos := repository.NewRepository(db)
	services := service.NewService(repos, client)
	handlers := handler.NewHandler(services)

	srv := new(coinbridge.Server)
	go func() {
		if err := srv.Run(os.Getenv("PORT"), handlers.InitRoute()); err != nil {
			logrus.Fatalf("Ошибка при запуске сервера: %s \n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Ошибка при остановке сервера: %s \n", err)
	}
}

func InitConfig() error {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// CoinConfig читает coins.<coin> из config.yml; rpc-пароль и passphrase —
// только из окружения, в yaml их нет.
func CoinConfig() coinrpc.Config {
	coin := viper.GetString("coin")
	prefix := "coins." + coin + "."
	envPrefix := strings.ToUpper(coin)

	txFee, err := decimal.NewFromString(viper.GetString(prefix + "txfee"))
	if err != nil {
		logrus.Fatalf("Некорректный txfee для %s: %s \n", coin, err.Error())
	}

	return coinrpc.Config{
		Coin:             coin,
		Ticker:           viper.GetString(prefix + "ticker"),
		RPCURL:           viper.GetString(prefix + "rpc-url"),
		RPCPort:          viper.GetString(prefix + "rpc-port"),
		RPCPortTestnet:   viper.GetString(prefix + "rpc-port-testnet"),
		RPCUser:          viper.GetString(prefix + "rpc-user"),
		RPCPassword:      os.Getenv(envPrefix + "_RPC_PASSWORD"),
		Passphrase:       os.Getenv(envPrefix + "_PASSPHRASE"),
		TxFee:            txFee,
		UnlockTimeout:    viper.GetInt(prefix + "unlock-timeout"),
		UseTestnet:       viper.GetBool("testnet"),
		AllowSelfPayment: viper.GetBool(prefix + "allow-self-payment"),
		// Только для монет с legacy-base58 адресами.
		ValidateAddresses: viper.GetBool(prefix + "validate-addresses"),
	}
}
