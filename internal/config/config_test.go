package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/backprop/internal/optim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Empty(t, cfg.DataPath)
	assert.Equal(t, optim.NameSGD, cfg.Optimizer)
}

func TestFromLookup_AllKeys(t *testing.T) {
	cfg, err := FromLookup(lookupMap(map[string]string{
		EnvData:          "data/iris.csv",
		EnvResults:       "out.txt",
		EnvEpochs:        "7",
		EnvLearningRate:  "0.25",
		EnvBatchSize:     "4",
		EnvTrials:        "3",
		EnvSeed:          "-12",
		EnvWorkers:       "2",
		EnvOptimizer:     " Adam ",
		EnvTrainFraction: "0.5",
		EnvExtended:      "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, &Config{
		DataPath:      "data/iris.csv",
		ResultsPath:   "out.txt",
		Epochs:        7,
		LearningRate:  0.25,
		BatchSize:     4,
		Trials:        3,
		Seed:          -12,
		Workers:       2,
		Optimizer:     optim.NameAdam,
		TrainFraction: 0.5,
		Extended:      true,
	}, cfg)
}

func TestFromLookup_EmptyValuesKeepDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupMap(map[string]string{EnvEpochs: "", EnvResults: "  "}))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Epochs)
	assert.Equal(t, "results.txt", cfg.ResultsPath)
}

func TestFromLookup_Malformed(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvEpochs, "ten"},
		{EnvLearningRate, "fast"},
		{EnvSeed, "1.5"},
		{EnvExtended, "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg, err := FromLookup(lookupMap(map[string]string{tt.key: tt.value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
			assert.Equal(t, Default(), cfg, "malformed keys keep their defaults")

			var envErrs EnvErrors
			require.ErrorAs(t, err, &envErrs)
			require.Len(t, envErrs, 1)
			assert.Equal(t, tt.key, envErrs[0].Key)
			assert.NoError(t, envErrs.Without(tt.key))
		})
	}
}

func TestFromLookup_ReportsEveryMalformedKey(t *testing.T) {
	_, err := FromLookup(lookupMap(map[string]string{
		EnvEpochs: "ten",
		EnvTrials: "many",
	}))
	var envErrs EnvErrors
	require.ErrorAs(t, err, &envErrs)
	assert.Len(t, envErrs, 2)

	rest := envErrs.Without(EnvEpochs)
	require.Error(t, rest)
	assert.Contains(t, rest.Error(), EnvTrials)
	assert.NotContains(t, rest.Error(), EnvEpochs)
}

func TestValidate_OutOfRange(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvEpochs, "0"},
		{EnvLearningRate, "-0.1"},
		{EnvBatchSize, "0"},
		{EnvTrials, "-1"},
		{EnvWorkers, "-2"},
		{EnvTrainFraction, "1"},
		{EnvOptimizer, "rmsprop"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg, err := FromLookup(lookupMap(map[string]string{tt.key: tt.value}))
			require.NoError(t, err, "range checks are left to Validate")

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("# driver\nBACKPROP_TRIALS=4\nBACKPROP_OPTIMIZER=momentum\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Trials)
	assert.Equal(t, optim.NameMomentum, cfg.Optimizer)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_FindsEnvInParent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("BACKPROP_EPOCHS=9\n"), 0o600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	chdir(t, nested)
	// godotenv.Load never overrides, so register cleanup for the key it sets.
	t.Setenv(EnvEpochs, "")
	require.NoError(t, os.Unsetenv(EnvEpochs))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Epochs)
}

func TestLoad_ProcessEnvWins(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("BACKPROP_TRIALS=9\n"), 0o600))
	chdir(t, root)
	t.Setenv(EnvTrials, "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Trials)
}
