package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// BackendMemory usa o ledger em memória (desenvolvimento e testes)
	BackendMemory = "memory"
	// BackendChain usa um nó EVM via RPC (produção)
	BackendChain = "chain"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
	Backend   Backend   `mapstructure:",squash"`
	Registry  Registry  `mapstructure:",squash"`
	SaleWatch SaleWatch `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Auth struct {
	Secret            string `mapstructure:"auth_secret"`
	AdminUser         string `mapstructure:"auth_admin_user"`
	AdminPasswordHash string `mapstructure:"auth_admin_password_hash"`
}

// Backend seleciona onde os ativos realmente vivem. Em "memory" o serviço
// opera sobre um ledger interno; em "chain" cada movimentação vira uma
// transação assinada contra o nó RPC configurado.
type Backend struct {
	Mode             string `mapstructure:"backend_mode"`
	RPCURL           string `mapstructure:"backend_rpc_url"`
	SystemPrivateKey string `mapstructure:"backend_system_private_key"`
}

type Registry struct {
	OwnerAddress  string `mapstructure:"registry_owner_address"`
	StablecoinA   string `mapstructure:"registry_stablecoin_a"`
	StablecoinB   string `mapstructure:"registry_stablecoin_b"`
	OracleAddress string `mapstructure:"registry_oracle_address"`
}

type SaleWatch struct {
	CronSchedule string `mapstructure:"sale_watch_cron"`
	Enabled      bool   `mapstructure:"sale_watch_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("LOG_LEVEL", "debug")

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("AUTH_ADMIN_USER", "admin")
	viper.SetDefault("AUTH_ADMIN_PASSWORD_HASH", "") // bcrypt; vazio desabilita o login

	viper.SetDefault("BACKEND_MODE", BackendMemory)
	viper.SetDefault("BACKEND_RPC_URL", "http://localhost:8545")
	viper.SetDefault("BACKEND_SYSTEM_PRIVATE_KEY", "") // ONLY LOCAL

	viper.SetDefault("REGISTRY_OWNER_ADDRESS", "")
	viper.SetDefault("REGISTRY_STABLECOIN_A", "")
	viper.SetDefault("REGISTRY_STABLECOIN_B", "")
	viper.SetDefault("REGISTRY_ORACLE_ADDRESS", "")

	viper.SetDefault("SALE_WATCH_CRON", "*/5 * * * *") // A cada 5 minutos
	viper.SetDefault("SALE_WATCH_ENABLED", false)
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
