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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/repository"
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "管理词集",
}

var setsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "创建词集，可通过 --file 或 --word 提供词条",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := wordsFromFlags(cmd)
		if err != nil {
			return err
		}
		if words == nil {
			words = []entity.WordPair{}
		}

		container, cleanup, err := initApp(cmd)
		if err != nil {
			return fmt.Errorf("初始化失败: %w", err)
		}
		defer cleanup()

		set, err := container.WordSets.CreateWordSet(cmd.Context(), args[0], words)
		if err != nil {
			return fmt.Errorf("创建词集失败: %w", err)
		}
		cmd.Printf("已创建词集 %s (%s, %d 个词)\n", set.Name, set.ID, len(set.Words))
		return nil
	},
}

var setsLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "从 YAML/JSON/TSV 文件创建词集",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := readWordSetFile(args[0])
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		if strings.TrimSpace(name) == "" {
			name = file.Name
		}

		container, cleanup, err := initApp(cmd)
		if err != nil {
			return fmt.Errorf("初始化失败: %w", err)
		}
		defer cleanup()

		set, err := container.WordSets.CreateWordSet(cmd.Context(), name, file.Words)
		if err != nil {
			return fmt.Errorf("导入词集失败: %w", err)
		}
		cmd.Printf("已导入词集 %s (%s, %d 个词)\n", set.Name, set.ID, len(set.Words))
		return nil
	},
}

var setsListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出词集",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		orderBy, _ := cmd.Flags().GetString("order-by")
		page, _ := cmd.Flags().GetInt32("page")
		pageSize, _ := cmd.Flags().GetInt32("page-size")

		container, cleanup, err := initApp(cmd)
		if err != nil {
			return fmt.Errorf("初始化失败: %w", err)
		}
		defer cleanup()

		query := &repository.ListWordSetQuery{
			Pagination:  repository.Pagination{PageNo: page, PageSize: pageSize},
			FilterOrder: repository.FilterOrder{Filter: filter, OrderBy: orderBy},
		}
		sets, total, err := container.WordSets.ListWordSets(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("查询词集失败: %w", err)
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"ID", "Name", "Words", "Updated"})
		for _, set := range sets {
			table.Append([]string{
				set.ID,
				set.Name,
				strconv.Itoa(len(set.Words)),
				set.UpdatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
		table.Render()
		cmd.Printf("共 %d 个词集\n", total)
		return nil
	},
}

var setsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "查看词集内容",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := initApp(cmd)
		if err != nil {
			return fmt.Errorf("初始化失败: %w", err)
		}
		defer cleanup()

		set, err := container.WordSets.GetWordSet(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("获取词集失败: %w", err)
		}

		cmd.Printf("%s (%s)\n", set.Name, set.ID)
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"#", "Word", "Meaning"})
		for i, pair := range set.Words {
			table.Append([]string{strconv.Itoa(i + 1), pair.Word, pair.Meaning})
		}
		table.Render()
		return nil
	},
}

var setsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "重命名词集或替换其词条",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		words, err := wordsFromFlags(cmd)
		if err != nil {
			return err
		}
		if strings.TrimSpace(name) == "" && words == nil {
			return errors.New("请至少指定 --name、--file 或 --word 之一")
		}

		container, cleanup, err := initApp(cmd)
		if err != nil {
			return fmt.Errorf("初始化失败: %w", err)
		}
		defer cleanup()

		set, err := container.WordSets.UpdateWordSet(cmd.Context(), args[0], name, words)
		if err != nil {
			return fmt.Errorf("更新词集失败: %w", err)
		}
		cmd.Printf("已更新词集 %s (%s, %d 个词)\n", set.Name, set.ID, len(set.Words))
		return nil
	},
}

var setsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "删除词集",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := initApp(cmd)
		if err != nil {
			return fmt.Errorf("初始化失败: %w", err)
		}
		defer cleanup()

		if err := container.WordSets.DeleteWordSet(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("删除词集失败: %w", err)
		}
		cmd.Printf("已删除词集 %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setsCmd)
	setsCmd.AddCommand(setsCreateCmd, setsLoadCmd, setsListCmd, setsShowCmd, setsUpdateCmd, setsDeleteCmd)

	for _, c := range []*cobra.Command{setsCreateCmd, setsUpdateCmd} {
		c.Flags().StringP("file", "f", "", "从 YAML/JSON/TSV 文件读取词条")
		c.Flags().StringArrayP("word", "w", nil, "词条，格式 word=meaning，可重复")
	}
	setsUpdateCmd.Flags().String("name", "", "新的词集名称")
	setsLoadCmd.Flags().String("name", "", "词集名称 (默认取文件中的 name 或文件名)")

	setsListCmd.Flags().String("filter", "", "CEL 过滤表达式，例如 size >= 10")
	setsListCmd.Flags().String("order-by", "", "排序，例如 name 或 updated_at desc")
	setsListCmd.Flags().Int32("page", 1, "页码")
	setsListCmd.Flags().Int32("page-size", 20, "每页数量")
}

// wordsFromFlags returns nil when neither --file nor --word was given.
func wordsFromFlags(cmd *cobra.Command) ([]entity.WordPair, error) {
	var words []entity.WordPair
	if path, _ := cmd.Flags().GetString("file"); strings.TrimSpace(path) != "" {
		file, err := readWordSetFile(path)
		if err != nil {
			return nil, err
		}
		words = append(words, file.Words...)
	}
	raw, _ := cmd.Flags().GetStringArray("word")
	for _, item := range raw {
		pair, err := parseWordFlag(item)
		if err != nil {
			return nil, err
		}
		words = append(words, pair)
	}
	return words, nil
}

func parseWordFlag(raw string) (entity.WordPair, error) {
	word, meaning, ok := strings.Cut(raw, "=")
	if !ok {
		return entity.WordPair{}, fmt.Errorf("词条 %q 格式错误，应为 word=meaning", raw)
	}
	return entity.WordPair{Word: strings.TrimSpace(word), Meaning: strings.TrimSpace(meaning)}, nil
}

// wordSetFile is the on-disk shape accepted by `sets load` and --file.
type wordSetFile struct {
	Name  string            `yaml:"name"`
	Words []entity.WordPair `yaml:"words"`
}

func readWordSetFile(path string) (*wordSetFile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("读取词集文件失败: %w", err)
	}

	var file *wordSetFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		file, err = parseWordSetYAML(data)
	default:
		file, err = parseWordSetTSV(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("解析词集文件 %s 失败: %w", path, err)
	}
	if file.Name == "" {
		base := filepath.Base(path)
		file.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return file, nil
}

// parseWordSetYAML accepts either a document with name and words or a bare list of pairs.
// JSON input is handled here as well since it is valid YAML.
func parseWordSetYAML(data []byte) (*wordSetFile, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return &wordSetFile{}, nil
	}

	file := &wordSetFile{}
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&file.Words); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		if err := root.Decode(file); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unexpected document at line %d", root.Line)
	}
	file.Name = strings.TrimSpace(file.Name)
	return file, nil
}

// parseWordSetTSV reads one word<TAB>meaning pair per line; blank lines and # comments are ignored.
func parseWordSetTSV(r io.Reader) (*wordSetFile, error) {
	file := &wordSetFile{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		word, meaning, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing tab separator", line)
		}
		file.Words = append(file.Words, entity.WordPair{
			Word:    strings.TrimSpace(word),
			Meaning: strings.TrimSpace(meaning),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return file, nil
}
