package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	AccountsPathKey    = "accounts.path"
	EnvPrefix          = "INDEXDIFF"
	accountsConfigDir  = ".indexdiff"
	accountsConfigFile = "accounts.toml"
)

// Repository reads the ordered account list from a versioned TOML file.
// Per-account credentials may be overridden through the environment
// (INDEXDIFF_<NAME>_APP_ID, INDEXDIFF_<NAME>_API_KEY).
type Repository struct {
	accountsPath string
	cfg          *viper.Viper
}

var _ ports.AccountRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetDefault(AccountsPathKey, filepath.Join(homeDir, accountsConfigDir, accountsConfigFile))
	BindEnv(cfg)

	accountsPath := cfg.GetString(AccountsPathKey)
	if accountsPath == "" {
		return nil, errors.New("accounts path is empty")
	}
	accountsPath, err = normalizeAccountsPath(accountsPath)
	if err != nil {
		return nil, err
	}

	return &Repository{accountsPath: accountsPath, cfg: cfg}, nil
}

// BindEnv makes every viper key readable from INDEXDIFF_* variables, with
// dots and dashes mapped to underscores.
func BindEnv(cfg *viper.Viper) {
	cfg.SetEnvPrefix(EnvPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	cfg.AutomaticEnv()
}

func (r *Repository) Path() string {
	return r.accountsPath
}

// List returns the configured accounts in file order. A missing file yields
// the default mesos/kubernetes pair without credentials.
func (r *Repository) List(ctx context.Context) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, found, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	var accounts []domain.Account
	if found {
		accounts = make([]domain.Account, 0, len(file.Accounts))
		for _, entry := range file.Accounts {
			accounts = append(accounts, fromSchema(entry))
		}
	} else {
		accounts = domain.DefaultAccounts()
	}

	for i := range accounts {
		r.applyEnvOverrides(&accounts[i])
	}

	return accounts, nil
}

func (r *Repository) applyEnvOverrides(account *domain.Account) {
	prefix := strings.ToLower(string(account.Name))
	if appID := r.cfg.GetString(prefix + ".app_id"); appID != "" {
		account.Credentials.AppID = appID
	}
	if apiKey := r.cfg.GetString(prefix + ".api_key"); apiKey != "" {
		account.Credentials.APIKey = apiKey
	}
}

func (r *Repository) readSchema() (fileSchema, bool, error) {
	data, err := os.ReadFile(r.accountsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, false, nil
		}
		return fileSchema{}, false, fmt.Errorf("read accounts file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, false, fmt.Errorf("decode accounts file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, false, err
	}
	file.applyDefaults()

	return file, true, nil
}

func normalizeAccountsPath(path string) (string, error) {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, rest)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve accounts path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func fromSchema(account accountSchema) domain.Account {
	return domain.Account{
		Name: domain.AccountName(strings.TrimSpace(account.Name)),
		Credentials: domain.Credentials{
			AppID:     strings.TrimSpace(account.AppID),
			APIKey:    strings.TrimSpace(account.APIKey),
			APIKeyRef: strings.TrimSpace(account.APIKeyRef),
		},
	}
}
