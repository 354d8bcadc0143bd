package secret

import "github.com/zalando/go-keyring"

// ServiceName 是 wmicmd 在 OS keyring 中使用的 service 名。
const ServiceName = "wmicmd"

// KeyringAPI 是对 OS keyring 的最小抽象；测试可替换为内存实现。
type KeyringAPI interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
	Delete(service, account string) error
}

// osKeyring 通过 zalando/go-keyring 访问系统凭据库
// （Windows Credential Manager / macOS Keychain / Secret Service）。
type osKeyring struct{}

// DefaultKeyring 返回系统 keyring。
func DefaultKeyring() KeyringAPI { return osKeyring{} }

func (osKeyring) Get(service, account string) (string, error) {
	v, err := keyring.Get(service, account)
	if err != nil {
		return "", err
	}
	return cleanValue(v), nil
}

func (osKeyring) Set(service, account, value string) error {
	return keyring.Set(service, account, value)
}

func (osKeyring) Delete(service, account string) error {
	return keyring.Delete(service, account)
}
