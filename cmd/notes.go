package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/haierkeys/fast-note-client/global"
	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/internal/routers"
	"github.com/haierkeys/fast-note-client/internal/viewmodel"
	"github.com/haierkeys/fast-note-client/pkg/code"
	"github.com/haierkeys/fast-note-client/pkg/diff"
	apperrors "github.com/haierkeys/fast-note-client/pkg/errors"

	"github.com/spf13/cobra"
)

type noteFlags struct {
	title   string
	content string
	tags    string
	date    string
	search  string
	plain   bool
}

func bindNoteFormFlags(cmd *cobra.Command, f *noteFlags) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "note title // 标题")
	cmd.Flags().StringVar(&f.content, "content", "", "note content // 内容")
	cmd.Flags().StringVar(&f.tags, "tags", "", "comma separated tags // 逗号分隔的标签")
	cmd.Flags().StringVar(&f.date, "date", "", "note date YYYY-MM-DD // 日期")
}

// applyFormFlags 只写入命令行上显式给出的字段
func applyFormFlags(cmd *cobra.Command, vm *viewmodel.NotesViewModel, f *noteFlags) error {
	fields := []struct {
		flag, field, value string
	}{
		{"title", viewmodel.FieldTitle, f.title},
		{"content", viewmodel.FieldContent, f.content},
		{"tags", viewmodel.FieldTags, f.tags},
		{"date", viewmodel.FieldDate, f.date},
	}
	for _, fd := range fields {
		if !cmd.Flags().Changed(fd.flag) {
			continue
		}
		if _, err := vm.SetField(fd.field, fd.value); err != nil {
			return err
		}
	}
	return nil
}

func parseNoteID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewAppError(code.ErrorInvalidParams, err).WithDetails("invalid note id " + strconv.Quote(s))
	}
	return id, nil
}

func printNote(out io.Writer, n domain.Note) {
	fmt.Fprintf(out, "#%d  %s  (%s)\n", n.ID, n.Title, n.Date)
	fmt.Fprintf(out, "    Tags: %s\n", n.TagsText())
	if n.Content != "" {
		fmt.Fprintf(out, "    %s\n", n.Content)
	}
}

// notesRun 进入笔记页：先经过路由守卫，再执行 fn
func notesRun(fn func(ctx context.Context, c *Client, vm *viewmodel.NotesViewModel) error) error {
	return run(func(ctx context.Context, c *Client) error {
		if err := c.guard(routers.RouteNotes); err != nil {
			return err
		}
		return fn(ctx, c, c.app.Notes)
	})
}

func init() {
	notesCmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"blog"},
		Short:   "Manage your notes // 管理笔记",
	}

	listEnv := new(noteFlags)
	listCmd := &cobra.Command{
		Use:   "list [--search <text>]",
		Short: "List notes, optionally filtered // 列出笔记",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return notesRun(func(ctx context.Context, c *Client, vm *viewmodel.NotesViewModel) error {
				st := vm.SetSearch(listEnv.search)
				if flags.debug {
					global.Dump(st.Panels, st.Mode().String())
				}
				notes := st.Filtered()
				out := cmd.OutOrStdout()
				if len(notes) == 0 {
					fmt.Fprintln(out, "No notes available.")
					return nil
				}
				for _, n := range notes {
					printNote(out, n)
				}
				return nil
			})
		},
	}
	listCmd.Flags().StringVarP(&listEnv.search, "search", "s", "", "case-insensitive search over title, content and tags // 搜索")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one note // 查看笔记",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return notesRun(func(ctx context.Context, c *Client, vm *viewmodel.NotesViewModel) error {
				id, err := parseNoteID(args[0])
				if err != nil {
					c.app.Notifier.Error(err)
					return err
				}
				n, ok := vm.State().Notes.Find(id)
				if !ok {
					err := apperrors.NewAppError(code.ErrorNoteNotFound, nil).WithDetails("id " + args[0])
					c.app.Notifier.Error(err)
					return err
				}
				printNote(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}

	addEnv := new(noteFlags)
	addCmd := &cobra.Command{
		Use:   "add --title <title> --content <content> [--tags a,b] [--date YYYY-MM-DD]",
		Short: "Add a note // 添加笔记",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return notesRun(func(ctx context.Context, c *Client, vm *viewmodel.NotesViewModel) error {
				vm.ToggleForm()
				if err := applyFormFlags(cmd, vm, addEnv); err != nil {
					c.app.Notifier.Error(err)
					return err
				}
				before := len(vm.State().Notes)
				st, err := vm.Submit(ctx)
				if err != nil {
					return err
				}
				c.app.Notifier.Success(code.SuccessCreate)
				if len(st.Notes) > before {
					printNote(cmd.OutOrStdout(), st.Notes[len(st.Notes)-1])
				}
				return nil
			})
		},
	}
	bindNoteFormFlags(addCmd, addEnv)

	editEnv := new(noteFlags)
	editCmd := &cobra.Command{
		Use:   "edit <id> [--title ...] [--content ...] [--tags ...] [--date ...]",
		Short: "Edit a note, unchanged fields keep their value // 编辑笔记",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return notesRun(func(ctx context.Context, c *Client, vm *viewmodel.NotesViewModel) error {
				id, err := parseNoteID(args[0])
				if err != nil {
					c.app.Notifier.Error(err)
					return err
				}
				st, err := vm.BeginEdit(id)
				if err != nil {
					c.app.Notifier.Error(err)
					return err
				}
				old, _ := st.Notes.Find(id)
				if err := applyFormFlags(cmd, vm, editEnv); err != nil {
					vm.CancelEdit()
					c.app.Notifier.Error(err)
					return err
				}
				st, err = vm.Submit(ctx)
				if err != nil {
					return err
				}
				c.app.Notifier.Success(code.SuccessUpdate)

				updated, _ := st.Notes.Find(id)
				out := cmd.OutOrStdout()
				printNote(out, updated)
				if stat := diff.Summary(old.Content, updated.Content); stat.Changed() {
					fmt.Fprintf(out, "Content: +%d -%d\n", stat.Inserted, stat.Deleted)
					if editEnv.plain {
						fmt.Fprintln(out, diff.Inline(old.Content, updated.Content))
					} else {
						fmt.Fprintln(out, diff.Colored(old.Content, updated.Content))
					}
				}
				return nil
			})
		},
	}
	bindNoteFormFlags(editCmd, editEnv)
	editCmd.Flags().BoolVar(&editEnv.plain, "plain", false, "print the content diff without colors // 无颜色输出差异")

	deleteCmd := &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete notes without confirmation // 删除笔记（不确认）",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return notesRun(func(ctx context.Context, c *Client, vm *viewmodel.NotesViewModel) error {
				ids := make([]int64, len(args))
				for i, a := range args {
					id, err := parseNoteID(a)
					if err != nil {
						c.app.Notifier.Error(err)
						return err
					}
					ids[i] = id
				}

				errs := c.app.Batch(ctx, len(ids), func(ctx context.Context, i int) error {
					_, err := vm.Delete(ctx, ids[i])
					return err
				})

				failed := 0
				for i, err := range errs {
					if err != nil {
						failed++
						// 未进入视图模型的任务（队列已关闭等）在这里提示
						if apperrors.GetAppError(err) == nil {
							c.app.Notifier.Error(err)
						}
						continue
					}
					c.app.Notifier.Info(code.SuccessDelete.Msg() + ": #" + strconv.FormatInt(ids[i], 10))
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d deletes failed", failed, len(ids))
				}
				return nil
			})
		},
	}

	notesCmd.AddCommand(listCmd, showCmd, addCmd, editCmd, deleteCmd)
	rootCmd.AddCommand(notesCmd)
}
