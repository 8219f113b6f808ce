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
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/eslsoft/vocdrill/internal/usecase"
	"github.com/eslsoft/vocdrill/internal/usecase/drill"
)

var drillCmd = &cobra.Command{
	Use:   "drill <set-id>",
	Short: "在终端中练习一个词集",
	Long:  "逐轮给出提示词与若干释义选项。输入 1-N 作答，0 或 s 跳过，q 退出；结束时打印统计表。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := initApp(cmd)
		if err != nil {
			return fmt.Errorf("初始化失败: %w", err)
		}
		defer cleanup()

		return runDrill(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), container.Practice, args[0])
	},
}

func init() {
	rootCmd.AddCommand(drillCmd)
}

type drillAction int

const (
	actionAnswer drillAction = iota
	actionSkip
	actionQuit
)

func runDrill(ctx context.Context, in io.Reader, out io.Writer, practice usecase.PracticeUsecase, setID string) error {
	session, err := practice.Start(ctx, setID)
	if err != nil {
		return fmt.Errorf("开始练习失败: %w", err)
	}
	fmt.Fprintf(out, "开始练习 (%d 个词)。输入 1-N 作答，0 或 s 跳过，q 退出。\n", session.ItemCount)

	scanner := bufio.NewScanner(in)
	offeredEnd := false

loop:
	for {
		round, err := practice.NextRound(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("生成题目失败: %w", err)
		}
		printRound(out, round)

		action, choice, ok := readAction(scanner, out, len(round.Choices))
		if !ok {
			break
		}

		var result *usecase.AnswerResult
		switch action {
		case actionQuit:
			break loop
		case actionSkip:
			result, err = practice.Skip(ctx, session.ID, round.ID)
		default:
			result, err = practice.Answer(ctx, session.ID, round.ID, round.Choices[choice].ItemID)
		}
		if err != nil {
			return fmt.Errorf("提交答案失败: %w", err)
		}

		if result.Correct {
			fmt.Fprintln(out, "✓ 正确")
		} else {
			fmt.Fprintf(out, "✗ 正确答案: %s\n", result.CorrectAnswer)
		}

		if result.CanEnd && !offeredEnd {
			offeredEnd = true
			fmt.Fprint(out, "所有词都已掌握，结束练习? [Y/n] ")
			if !scanner.Scan() {
				break
			}
			answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
			if answer == "" || answer == "y" || answer == "yes" {
				break
			}
		}
	}

	report, err := practice.Finish(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("结束练习失败: %w", err)
	}
	printReport(out, report)
	return nil
}

func printRound(out io.Writer, round *usecase.PracticeRound) {
	fmt.Fprintf(out, "\n第 %d 题: %s\n", round.Index+1, round.Prompt)
	for i, choice := range round.Choices {
		fmt.Fprintf(out, "  %d) %s\n", i+1, choice.Text)
	}
}

// readAction prompts until the input is a valid choice; ok is false once input is exhausted.
func readAction(scanner *bufio.Scanner, out io.Writer, choices int) (drillAction, int, bool) {
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return actionQuit, 0, false
		}
		text := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch text {
		case "q", "quit":
			return actionQuit, 0, true
		case "0", "s", "skip":
			return actionSkip, 0, true
		}
		n, err := strconv.Atoi(text)
		if err == nil && n >= 1 && n <= choices {
			return actionAnswer, n - 1, true
		}
		fmt.Fprintf(out, "请输入 1-%d，0/s 跳过，q 退出\n", choices)
	}
}

func printReport(out io.Writer, report drill.Report) {
	fmt.Fprintf(out, "\n共 %d 轮，平均正确率 %.0f%%，平均需求度 %.2f\n", report.Rounds, report.AverageAccuracy*100, report.AverageNeed)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Word", "Meaning", "Shown", "Correct", "Wrong", "Accuracy", "Need"})
	for _, s := range report.Items {
		table.Append([]string{
			s.Prompt,
			s.Answer,
			strconv.Itoa(s.Shown),
			strconv.Itoa(s.Correct),
			strconv.Itoa(s.Wrong),
			fmt.Sprintf("%.0f%%", s.Accuracy*100),
			fmt.Sprintf("%.2f", s.Need),
		})
	}
	table.Render()
}
