/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/usecase"
)

// dbInitCmd applies the schema and optionally seeds word sets from files or the built-in sample.
var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "初始化数据库并导入词集",
	Long:  "执行数据库迁移，并可从文件或内置示例导入词集。注意: go-sqlite3 需要 CGO_ENABLED=1 构建。",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, _ := cmd.Flags().GetStringArray("seed")
		sample, _ := cmd.Flags().GetBool("sample")

		// initApp opens the connection, which runs the migrations.
		container, cleanup, err := initApp(cmd)
		if err != nil {
			return fmt.Errorf("初始化失败: %w", err)
		}
		defer cleanup()
		cmd.Println("数据库迁移完成")

		seeds := make([]*wordSetFile, 0, len(files)+1)
		if sample {
			seeds = append(seeds, sampleWordSet())
		}
		for _, path := range files {
			file, err := readWordSetFile(path)
			if err != nil {
				return err
			}
			seeds = append(seeds, file)
		}
		return seedWordSets(cmd, container.WordSets, seeds)
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)
	dbInitCmd.Flags().StringArray("seed", nil, "迁移后导入的词集文件 (YAML/JSON/TSV)，可重复")
	dbInitCmd.Flags().Bool("sample", false, "导入内置示例词集")
}

func seedWordSets(cmd *cobra.Command, sets usecase.WordSetUsecase, seeds []*wordSetFile) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	for _, seed := range seeds {
		set, err := sets.CreateWordSet(ctx, seed.Name, seed.Words)
		if err != nil {
			return fmt.Errorf("导入词集 %s 失败: %w", seed.Name, err)
		}
		cmd.Printf("已导入词集 %s (%s, %d 个词)\n", set.Name, set.ID, len(set.Words))
	}
	return nil
}

func sampleWordSet() *wordSetFile {
	return &wordSetFile{
		Name: "German basics",
		Words: []entity.WordPair{
			{Word: "der Apfel", Meaning: "apple"},
			{Word: "das Brot", Meaning: "bread"},
			{Word: "die Katze", Meaning: "cat"},
			{Word: "der Hund", Meaning: "dog"},
			{Word: "das Haus", Meaning: "house"},
			{Word: "die Schule", Meaning: "school"},
			{Word: "das Wasser", Meaning: "water"},
			{Word: "der Baum", Meaning: "tree"},
		},
	}
}
