package crisis

const responseTemplate = `I hear that you're going through an incredibly difficult time right now, and I'm concerned about your safety.

While I'm here to support you, I want to make sure you have access to immediate professional help:

🆘 Crisis Resources:
%s

Please reach out to one of these services - they have trained counselors available 24/7 who can provide the support you need right now.

You don't have to go through this alone. Would you be willing to contact one of these resources? I'll be here to talk with you too, but getting professional support is really important.`

const urgentNote = "\n\n⚠️ Please reach out right now. These services have trained counselors who want to help you through this moment. You deserve support."
