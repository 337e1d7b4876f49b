package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load 加载配置到 out，支持多环境
// 顺序：base.yaml -> <env>.yaml -> secrets.env 占位符替换
// 系统环境变量的覆盖由调用方的 Override*FromEnv 完成
func Load(env, configDir string, out any) error {
	if configDir == "" {
		configDir = "config"
	}

	// 1. 加载 base.yaml
	merged, err := loadYAMLFile(filepath.Join(configDir, "base.yaml"))
	if err != nil {
		return fmt.Errorf("failed to load base.yaml: %w", err)
	}

	// 2. 环境配置覆盖基础配置
	if env != "" && env != "base" {
		envFile := filepath.Join(configDir, env+".yaml")
		if _, err := os.Stat(envFile); err == nil {
			envConfig, err := loadYAMLFile(envFile)
			if err != nil {
				return fmt.Errorf("failed to load %s.yaml: %w", env, err)
			}
			merged = mergeMaps(merged, envConfig)
		}
	}

	// 3. secrets.env 替换 ${VAR} 占位符
	secretsFile := filepath.Join(configDir, "secrets.env")
	if _, err := os.Stat(secretsFile); err == nil {
		secrets, err := loadEnvFile(secretsFile)
		if err != nil {
			return fmt.Errorf("failed to load secrets.env: %w", err)
		}
		merged = substituteEnvVars(merged, secrets)
	}

	// 4. 转换为目标结构
	data, err := yaml.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

func loadYAMLFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := make(map[string]any)
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return config, nil
}

// loadEnvFile 加载 KEY=VALUE 格式的 .env 文件
func loadEnvFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	env := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		env[strings.TrimSpace(key)] = value
	}
	return env, nil
}

// mergeMaps 递归合并，src 覆盖 dst
func mergeMaps(dst, src map[string]any) map[string]any {
	result := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		result[k] = v
	}
	for k, v := range src {
		dstMap, ok1 := result[k].(map[string]any)
		srcMap, ok2 := v.(map[string]any)
		if ok1 && ok2 {
			result[k] = mergeMaps(dstMap, srcMap)
			continue
		}
		result[k] = v
	}
	return result
}

func substituteEnvVars(config map[string]any, env map[string]string) map[string]any {
	result := make(map[string]any, len(config))
	for k, v := range config {
		switch val := v.(type) {
		case string:
			result[k] = substituteString(val, env)
		case map[string]any:
			result[k] = substituteEnvVars(val, env)
		default:
			result[k] = v
		}
	}
	return result
}

// substituteString 只替换 ${VAR_NAME} 形式，保留其他 $ 字符
func substituteString(s string, env map[string]string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	for key, value := range env {
		s = strings.ReplaceAll(s, "${"+key+"}", value)
	}
	return s
}

// GetEnv 获取环境变量，如果未设置则返回默认值
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetConfigEnv 获取配置环境（CONFIG_ENV，默认 local）
func GetConfigEnv() string {
	return GetEnv("CONFIG_ENV", "local")
}
