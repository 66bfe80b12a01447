// Copyright 2026 ldakit Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"github.com/ldakit/ldakit/base/log"
	"github.com/ldakit/ldakit/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCommand = &cobra.Command{
	Use:   "ldakit",
	Short: "Prepare bag-of-words corpora and fit topic models on a remote provider.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debugMode, _ := cmd.Flags().GetBool("debug")
		log.SetLogger(cmd.Flags(), debugMode)
	},
}

func init() {
	rootCommand.PersistentFlags().StringP("config", "c", "config.toml", "path of configuration file")
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.AddCommand(trainCommand)
	rootCommand.AddCommand(predictCommand)
}

func loadConfig(cmd *cobra.Command) *config.Config {
	configPath, _ := cmd.Flags().GetString("config")
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		log.Logger().Fatal("failed to load configuration",
			zap.String("path", configPath), zap.Error(err))
	}
	return conf
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
