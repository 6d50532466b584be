////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package cmd initializes the CLI and config parsers as well as the logger.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"
	"gitlab.com/elixxir/ekv"

	"gitlab.com/orchid-im/supportbot/delivery"
	"gitlab.com/orchid-im/supportbot/relay"
	"gitlab.com/orchid-im/supportbot/storage"
	"gitlab.com/orchid-im/supportbot/transport/telegram"
)

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "supportbot",
	Short: "Relays private messages into a staff group and staff replies back",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initConfig(viper.GetString("config"))
		initLog(viper.GetUint("logLevel"), viper.GetString("log"))

		token := viper.GetString("token")
		if token == "" {
			jww.FATAL.Panicf("No bot token specified.")
		}
		welcomeText := viper.GetString("welcomeText")
		if welcomeText == "" {
			jww.FATAL.Panicf("No welcome text specified.")
		}

		backing, err := ekv.NewFilestore(
			viper.GetString("db"), viper.GetString("dbPassword"))
		if err != nil {
			jww.FATAL.Panicf("Failed to open store at %q: %+v",
				viper.GetString("db"), err)
		}
		kv := storage.NewKV(backing)

		bot, err := telegram.New(token)
		if err != nil {
			jww.FATAL.Panicf("Failed to authenticate with Telegram: %+v", err)
		}

		engine := relay.New(relay.Config{
			TargetGroup: viper.GetInt64("targetGroup"),
			WelcomeText: welcomeText,
			ReplyText:   viper.GetString("replyText"),
		}, bot, delivery.NewGateway(), kv)

		quit := make(chan struct{})
		done := make(chan struct{})
		go func() {
			engine.Run(bot, quit)
			close(done)
		}()
		jww.INFO.Printf("Startup OK")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		jww.INFO.Printf("Shutting down")
		close(quit)
		<-done
		if err = kv.Sync(); err != nil {
			jww.ERROR.Printf("Failed to flush store on shutdown: %+v", err)
		}
	},
}

// initConfig reads in the config file given on the command line, if any.
func initConfig(cfgFile string) {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		jww.FATAL.Panicf("Could not read config file %q: %+v", cfgFile, err)
	}
}

// initLog initializes logging thresholds and the log path.
func initLog(threshold uint, logPath string) {
	if logPath != "-" && logPath != "" {
		// Disable stdout output
		jww.SetStdoutOutput(io.Discard)
		// Use log file
		logOutput, err := os.OpenFile(logPath,
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			panic(err.Error())
		}
		jww.SetLogOutput(logOutput)
	}

	if threshold > 1 {
		jww.SetStdoutThreshold(jww.LevelTrace)
		jww.SetLogThreshold(jww.LevelTrace)
		jww.SetFlags(log.LstdFlags | log.Lmicroseconds)
		jww.INFO.Printf("log level set to: TRACE")
	} else if threshold == 1 {
		jww.SetStdoutThreshold(jww.LevelDebug)
		jww.SetLogThreshold(jww.LevelDebug)
		jww.SetFlags(log.LstdFlags | log.Lmicroseconds)
		jww.INFO.Printf("log level set to: DEBUG")
	} else {
		jww.SetStdoutThreshold(jww.LevelInfo)
		jww.SetLogThreshold(jww.LevelInfo)
		jww.INFO.Printf("log level set to: INFO")
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "",
		"Path to a YAML config file; flags override its values")
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.PersistentFlags().StringP("token", "t", "",
		"Bot API token (required)")
	viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))

	rootCmd.PersistentFlags().Int64P("targetGroup", "g", 0,
		"Chat id of the staff group; without it private messages are dropped")
	viper.BindPFlag("targetGroup", rootCmd.PersistentFlags().Lookup(
		"targetGroup"))

	rootCmd.PersistentFlags().String("welcomeText", "",
		"Text sent in response to /start (required)")
	viper.BindPFlag("welcomeText", rootCmd.PersistentFlags().Lookup(
		"welcomeText"))

	rootCmd.PersistentFlags().String("replyText", "",
		"Auto-reply sent back after every relayed message; empty disables it")
	viper.BindPFlag("replyText", rootCmd.PersistentFlags().Lookup("replyText"))

	rootCmd.PersistentFlags().StringP("db", "d", "supportbot-store",
		"Directory holding the persistent store")
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.PersistentFlags().StringP("dbPassword", "p", "",
		"Password the store is encrypted with")
	viper.BindPFlag("dbPassword", rootCmd.PersistentFlags().Lookup(
		"dbPassword"))

	rootCmd.PersistentFlags().StringP("log", "l", "-",
		"Path to output logs into, or - for stdout")
	viper.BindPFlag("log", rootCmd.PersistentFlags().Lookup("log"))

	rootCmd.PersistentFlags().UintP("logLevel", "v", 0,
		"Verbosity of logging: 0 = info, 1 = debug, >1 = trace")
	viper.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("logLevel"))
}
