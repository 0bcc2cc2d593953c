package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/futig/ai-compass/internal/builder"
	"github.com/futig/ai-compass/internal/entity"
	"github.com/futig/ai-compass/internal/usecase/funnel"
	"github.com/futig/ai-compass/internal/usecase/report"
	"github.com/futig/ai-compass/internal/usecase/submission"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// WalkthroughOptions holds the options for the walkthrough command.
type WalkthroughOptions struct {
	Profile     entity.CompanyProfile
	Consent     bool
	Format      string
	OutDir      string
	SkipAnswers bool
}

var walkthroughOpts WalkthroughOptions

var walkthroughCmd = &cobra.Command{
	Use:   "walkthrough",
	Short: "Run the whole assessment funnel once and save the report",
	Long:  `Walkthrough starts an anonymous assessment, answers every question with its first option, submits the company profile and downloads the report.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := builder.BuildWalkthrough(environment)
		if err != nil {
			return err
		}
		defer w.Close()

		opts := walkthroughOpts
		if opts.OutDir == "" {
			opts.OutDir = w.DownloadDir
		}

		ctx := ctxzap.ToContext(cmd.Context(), w.Logger)
		_, err = RunWalkthrough(ctx, cmd.OutOrStdout(), w.Visitor, opts)
		return err
	},
}

func init() {
	f := walkthroughCmd.Flags()
	f.StringVar(&walkthroughOpts.Profile.CompanyName, "company", "", "company name")
	f.StringVar(&walkthroughOpts.Profile.Industry, "industry", "", "industry")
	f.StringVar(&walkthroughOpts.Profile.NumberOfEmployees, "size", "", "number of employees, e.g. 11-50")
	f.StringVar(&walkthroughOpts.Profile.Email, "email", "", "contact email")
	f.StringVar(&walkthroughOpts.Profile.City, "city", "", "city")
	f.StringVar(&walkthroughOpts.Profile.Website, "website", "", "website")
	f.BoolVar(&walkthroughOpts.Consent, "consent", false, "agree to the privacy policy")
	f.StringVar(&walkthroughOpts.Format, "format", "pdf", "report format: pdf, docx or markdown")
	f.StringVar(&walkthroughOpts.OutDir, "out", "", "directory for the report (default FUNNEL_DOWNLOAD_DIR)")
	f.BoolVar(&walkthroughOpts.SkipAnswers, "skip-answers", false, "submit without answering the questionnaire")
}

// RunWalkthrough drives one visitor through the funnel and returns the saved
// report.
func RunWalkthrough(ctx context.Context, out io.Writer, v *funnel.Visitor, opts WalkthroughOptions) (entity.SavedReport, error) {
	format := entity.ReportFormat(opts.Format)
	if !format.IsValid() {
		return entity.SavedReport{}, fmt.Errorf("%w: format %q", entity.ErrInvalidParameter, opts.Format)
	}

	// Nothing reaches the backend until the submission would be accepted.
	if !opts.Consent {
		return entity.SavedReport{}, entity.ErrConsentRequired
	}
	if _, err := entity.FinalizeCompany(opts.Profile); err != nil {
		return entity.SavedReport{}, err
	}

	// 1. Warm the questionnaire cache while the session is created
	v.WarmUp(ctx)

	s, err := v.Start(ctx)
	if err != nil {
		return entity.SavedReport{}, err
	}
	fmt.Fprintf(out, "Assessment started: company %d, response %d\n", s.CompanyID, s.ResponseID)

	// 2. Answer the questionnaire
	if !opts.SkipAnswers {
		q, err := v.Prefetcher.Questionnaire(ctx)
		if err != nil {
			return entity.SavedReport{}, err
		}

		answered := 0
		for _, req := range firstAnswers(q) {
			if err := v.Tracker.RecordAnswer(ctx, req); err != nil {
				return entity.SavedReport{}, err
			}
			answered++
		}
		fmt.Fprintf(out, "Answered %d questions\n", answered)
	}

	// 3. Submit the company profile
	fmt.Fprintln(out, "Analyzing...")
	outcome, err := v.Submission.Submit(ctx, submission.SubmitRequest{
		ResponseID: s.ResponseID,
		Consent:    opts.Consent,
		Profile:    opts.Profile,
	})
	if err != nil {
		return entity.SavedReport{}, err
	}
	fmt.Fprintf(out, "Assessment complete, results at %s\n", outcome.ResultsPath)

	// 4. Download the report
	saved, err := v.Reports.Download(ctx, outcome.ResponseID, format, report.NewFileSaver(opts.OutDir))
	if err != nil {
		return entity.SavedReport{}, err
	}
	fmt.Fprintf(out, "Report saved to %s (%d bytes)\n", saved.Location, saved.Size)

	return saved, nil
}

// firstAnswers picks the first option of every question.
func firstAnswers(q entity.Questionnaire) []*entity.RecordAnswerRequest {
	var reqs []*entity.RecordAnswerRequest
	gjson.GetBytes(q, "dimensions").ForEach(func(_, dim gjson.Result) bool {
		dim.Get("questions").ForEach(func(_, question gjson.Result) bool {
			qid := question.Get("question_id").Int()
			aid := question.Get("answers.0.answer_id").Int()
			if qid > 0 && aid > 0 {
				reqs = append(reqs, &entity.RecordAnswerRequest{QuestionID: qid, AnswerIDs: []int64{aid}})
			}
			return true
		})
		return true
	})
	return reqs
}
