package validate

const MsgResumeRequired = "Please upload your resume (PDF)."

// ApplicationForm is the candidate application. Resume holds the uploaded
// file name and is blank when no PDF was attached.
type ApplicationForm struct {
	Name     string `json:"name" validate:"name" msg:"Name must contain only alphabets."`
	Phone    string `json:"phone" validate:"phone" msg:"Phone number must be 10-15 digits."`
	GradYear string `json:"grad_year" validate:"gradyear" msg:"Graduation Year must be a valid 4-digit year."`
	College  string `json:"college" validate:"safetext" msg:"College name contains invalid characters."`
	Resume   string `json:"resume" validate:"notblank" msg:"Please upload your resume (PDF)."`
}

func (ApplicationForm) FormName() string { return "application" }

type CertificateForm struct {
	StudentName string `json:"student_name" validate:"name" msg:"Invalid Name: Alphabets only (No symbols/numbers)"`
	Domain      string `json:"domain" validate:"safetext" msg:"Domain contains invalid characters."`
	Duration    string `json:"duration" validate:"omitempty,safetext" msg:"Duration contains invalid characters."`
	StartDate   string `json:"start_date" validate:"notblank" msg:"Start date is required."`
	AwardDate   string `json:"award_date" validate:"notblank" msg:"Award date is required."`
}

func (CertificateForm) FormName() string { return "certificate" }

// InternalJobForm covers careers postings; the company is always the brand.
type InternalJobForm struct {
	Title    string `json:"title" validate:"safetext" msg:"Job Title contains invalid characters."`
	Location string `json:"location" validate:"safetext" msg:"Location contains invalid characters."`
}

func (InternalJobForm) FormName() string { return "internal_job" }

type ExternalJobForm struct {
	Title       string `json:"title" validate:"safetext" msg:"Job Title contains invalid characters."`
	Location    string `json:"location" validate:"safetext" msg:"Location contains invalid characters."`
	CompanyName string `json:"company_name" validate:"safetext" msg:"Company Name contains invalid characters."`
}

func (ExternalJobForm) FormName() string { return "external_job" }

// ExternalLinkForm applies to opportunities that redirect off-platform.
type ExternalLinkForm struct {
	ExternalLink string `json:"external_link" validate:"notblank" msg:"External application link is required."`
}

func (ExternalLinkForm) FormName() string { return "external_job" }

type AdminAccountForm struct {
	Name     string `json:"name" validate:"name" msg:"Name must be alphabets only."`
	Email    string `json:"email" validate:"emailaddr,personal_email"`
	Password string `json:"password" validate:"min=6" msg:"Password must be at least 6 characters."`
}

func (AdminAccountForm) FormName() string { return "admin_account" }

type SignUpForm struct {
	Name     string `json:"name" validate:"notblank" msg:"Name is required."`
	Phone    string `json:"phone" validate:"in_mobile"`
	Email    string `json:"email" validate:"emailaddr,personal_email"`
	Password string `json:"password" validate:"min=6" msg:"Password must be at least 6 characters."`
}

func (SignUpForm) FormName() string { return "sign_up" }

type ChangePasswordForm struct {
	OldPassword string `json:"old_password" validate:"notblank" msg:"Current password is required."`
	NewPassword string `json:"new_password" validate:"min=6" msg:"Password must be at least 6 characters."`
}

func (ChangePasswordForm) FormName() string { return "change_password" }

type ContactForm struct {
	Name    string `json:"name" validate:"notblank" msg:"Name is required."`
	Email   string `json:"email" validate:"emailaddr,personal_email"`
	Message string `json:"message" validate:"notblank" msg:"Message is required."`
}

func (ContactForm) FormName() string { return "contact" }
